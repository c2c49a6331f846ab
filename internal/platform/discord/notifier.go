package discord

import (
	"context"

	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

// Send posts msg to a channel.
func (c *Client) Send(ctx context.Context, channelID sharedtypes.ChannelID, msg platform.Message) (sharedtypes.MessageID, error) {
	if err := c.throttle(ctx); err != nil {
		return "", err
	}
	send := &discordgo.MessageSend{Content: msg.Content}
	if msg.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{convertEmbed(msg.Embed)}
	}
	sent, err := c.session.ChannelMessageSendComplex(string(channelID), send, discordgo.WithContext(ctx))
	if err != nil {
		return "", mapError("send message", err)
	}
	return sharedtypes.MessageID(sent.ID), nil
}

// AddReaction reacts with an emoji key.
func (c *Client) AddReaction(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID, emoji string) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	err := c.session.MessageReactionAdd(string(channelID), string(messageID), platform.ReactionName(emoji), discordgo.WithContext(ctx))
	return mapError("add reaction", err)
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	err := c.session.ChannelMessageDelete(string(channelID), string(messageID), discordgo.WithContext(ctx))
	return mapError("delete message", err)
}

// Reply answers a deferred interaction. Ephemeral replies go out as a hidden
// followup and the public "thinking" placeholder is removed.
func (c *Client) Reply(ctx context.Context, ref platform.InteractionRef, msg platform.Message) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	appID := ref.AppID
	if appID == "" {
		appID = c.appID()
	}
	interaction := &discordgo.Interaction{ID: ref.ID, AppID: appID, Token: ref.Token}

	var embeds []*discordgo.MessageEmbed
	if msg.Embed != nil {
		embeds = []*discordgo.MessageEmbed{convertEmbed(msg.Embed)}
	}

	if msg.Ephemeral {
		_, err := c.session.FollowupMessageCreate(interaction, false, &discordgo.WebhookParams{
			Content: msg.Content,
			Embeds:  embeds,
			Flags:   discordgo.MessageFlagsEphemeral,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return mapError("send ephemeral reply", err)
		}
		return mapError("delete placeholder", c.session.InteractionResponseDelete(interaction, discordgo.WithContext(ctx)))
	}

	content := msg.Content
	_, err := c.session.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
	}, discordgo.WithContext(ctx))
	return mapError("edit reply", err)
}
