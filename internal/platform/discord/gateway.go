package discord

import (
	"context"
	"time"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

const memberLookupTimeout = 5 * time.Second

func (c *Client) publish(ctx context.Context, topic string, payload any) {
	ctx, span := c.tracer.Start(ctx, "discord.publish "+topic)
	defer span.End()
	if err := c.publisher.PublishEvent(ctx, topic, payload); err != nil {
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "Failed to publish gateway event",
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}

func (c *Client) onReady(s *discordgo.Session, r *discordgo.Ready) {
	c.mu.Lock()
	c.replay = make(map[string]struct{}, len(r.Guilds))
	for _, g := range r.Guilds {
		c.replay[g.ID] = struct{}{}
	}
	c.mu.Unlock()

	c.logger.Info("Discord gateway ready",
		attr.String("user", r.User.Username),
		attr.Int("guilds", len(r.Guilds)),
	)

	if c.cfg.RegisterCommands {
		if err := c.registerCommands(context.Background()); err != nil {
			c.logger.Error("Failed to register slash commands", attr.Error(err))
		}
	}
}

// invited reports whether a GuildCreate is a fresh join rather than the
// replay of a guild listed in Ready.
func (c *Client) invited(guildID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.replay[guildID]; ok {
		delete(c.replay, guildID)
		return false
	}
	return true
}

// HasGuild reports whether the bot is currently in guildID.
func (c *Client) HasGuild(guildID sharedtypes.GuildID) bool {
	_, err := c.session.State.Guild(string(guildID))
	return err == nil
}

func (c *Client) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	c.publish(context.Background(), discordevents.GuildJoinedV1, &discordevents.GuildPayloadV1{
		GuildID:         sharedtypes.GuildID(g.ID),
		GuildName:       g.Name,
		SystemChannelID: sharedtypes.ChannelID(g.SystemChannelID),
		Invited:         c.invited(g.ID),
	})
}

func (c *Client) onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	// Unavailable means an outage, not a removal.
	if g.Guild == nil || g.Unavailable {
		return
	}
	c.publish(context.Background(), discordevents.GuildLeftV1, &discordevents.GuildPayloadV1{
		GuildID: sharedtypes.GuildID(g.ID),
	})
}

func (c *Client) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil {
		return
	}
	if !m.Author.Bot {
		c.awaiter.Deliver(sharedtypes.ChannelID(m.ChannelID), sharedtypes.DiscordID(m.Author.ID), m.Content)
	}
	c.publish(context.Background(), discordevents.MessageCreatedV1, &discordevents.MessageCreatedPayloadV1{
		GuildID:     sharedtypes.GuildID(m.GuildID),
		ChannelID:   sharedtypes.ChannelID(m.ChannelID),
		MessageID:   sharedtypes.MessageID(m.ID),
		UserID:      sharedtypes.DiscordID(m.Author.ID),
		DisplayName: displayName(m.Member, m.Author),
		Bot:         m.Author.Bot,
	})
}

func (c *Client) reactionPayload(ctx context.Context, r *discordgo.MessageReaction, member *discordgo.Member) *discordevents.ReactionPayloadV1 {
	p := &discordevents.ReactionPayloadV1{
		GuildID:   sharedtypes.GuildID(r.GuildID),
		ChannelID: sharedtypes.ChannelID(r.ChannelID),
		MessageID: sharedtypes.MessageID(r.MessageID),
		UserID:    sharedtypes.DiscordID(r.UserID),
		Emoji:     emojiKey(r.Emoji),
	}
	if member != nil && member.User != nil {
		p.Bot = member.User.Bot
		return p
	}
	if c.session.State != nil && c.session.State.User != nil && r.UserID == c.session.State.User.ID {
		p.Bot = true
		return p
	}

	// Removals carry no member; resolve it from the state cache or REST.
	m, err := c.member(ctx, r.GuildID, r.UserID)
	if err != nil {
		c.logger.WarnContext(ctx, "Could not resolve reacting member",
			attr.GuildID(p.GuildID),
			attr.UserID(p.UserID),
			attr.Error(err),
		)
		return p
	}
	if m.User != nil {
		p.Bot = m.User.Bot
	}
	return p
}

func (c *Client) onReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil || r.GuildID == "" {
		return
	}
	c.publish(context.Background(), discordevents.ReactionAddedV1, c.reactionPayload(context.Background(), r.MessageReaction, r.Member))
}

func (c *Client) onReactionRemove(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil || r.GuildID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), memberLookupTimeout)
	payload := c.reactionPayload(ctx, r.MessageReaction, nil)
	cancel()
	c.publish(context.Background(), discordevents.ReactionRemovedV1, payload)
}

func (c *Client) memberPayload(m *discordgo.Member) *discordevents.MemberPayloadV1 {
	p := &discordevents.MemberPayloadV1{
		GuildID:     sharedtypes.GuildID(m.GuildID),
		DisplayName: displayName(m, nil),
	}
	if m.User != nil {
		p.UserID = sharedtypes.DiscordID(m.User.ID)
		p.Bot = m.User.Bot
	}
	if g, err := c.session.State.Guild(m.GuildID); err == nil {
		p.GuildName = g.Name
		p.MemberCount = g.MemberCount
	}
	return p
}

func (c *Client) onMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil {
		return
	}
	c.publish(context.Background(), discordevents.MemberJoinedV1, c.memberPayload(m.Member))
}

func (c *Client) onMemberRemove(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil {
		return
	}
	c.publish(context.Background(), discordevents.MemberLeftV1, c.memberPayload(m.Member))
}

// onInteraction defers every known slash command and forwards it. The reply
// arrives later through the interaction reply relay.
func (c *Client) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand || i.GuildID == "" {
		return
	}
	name := i.ApplicationCommandData().Name
	if !knownCommand(name) {
		return
	}

	ctx := context.Background()
	if err := c.throttle(ctx); err != nil {
		return
	}
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		c.logger.Error("Failed to defer interaction",
			attr.String("command", name),
			attr.Error(err),
		)
		return
	}
	c.publish(ctx, discordevents.CommandTopic(name), commandPayload(i.Interaction, c.appID()))
}
