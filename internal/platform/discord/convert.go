package discord

import (
	"strconv"
	"time"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

// displayName prefers the guild nickname, then the global name.
func displayName(m *discordgo.Member, u *discordgo.User) string {
	if m != nil && m.Nick != "" {
		return m.Nick
	}
	if u == nil && m != nil {
		u = m.User
	}
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

func convertMember(guildID string, m *discordgo.Member, roles []*discordgo.Role) platform.Member {
	positions := make(map[string]int, len(roles))
	for _, r := range roles {
		positions[r.ID] = r.Position
	}
	out := platform.Member{
		GuildID:     sharedtypes.GuildID(guildID),
		DisplayName: displayName(m, nil),
	}
	if m.User != nil {
		out.UserID = sharedtypes.DiscordID(m.User.ID)
		out.Bot = m.User.Bot
		out.AvatarURL = m.User.AvatarURL("256")
	}
	for _, id := range m.Roles {
		if id == guildID {
			continue
		}
		out.Roles = append(out.Roles, platform.RoleHandle{ID: sharedtypes.RoleID(id), Position: positions[id]})
	}
	return out
}

// memberPermissions ORs the @everyone role with the member's roles.
func memberPermissions(guildID string, m *discordgo.Member, roles []*discordgo.Role) int64 {
	held := make(map[string]bool, len(m.Roles)+1)
	held[guildID] = true
	for _, id := range m.Roles {
		held[id] = true
	}
	var perms int64
	for _, r := range roles {
		if held[r.ID] {
			perms |= r.Permissions
		}
	}
	return perms
}

func convertEmbed(e *platform.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Color:       e.Color,
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	if e.ImageURL != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
	}
	if e.Thumbnail != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if e.Timestamp != nil {
		out.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return out
}

func emojiKey(e discordgo.Emoji) string {
	return platform.EmojiKey(e.Name, e.ID)
}

// flattenOptions renders every option value as a string. User, role and
// channel options carry their ids; integers drop the float formatting.
func flattenOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]string {
	out := make(map[string]string, len(opts))
	for _, o := range opts {
		switch v := o.Value.(type) {
		case string:
			out[o.Name] = v
		case float64:
			out[o.Name] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[o.Name] = strconv.FormatBool(v)
		case nil:
			for k, sub := range flattenOptions(o.Options) {
				out[k] = sub
			}
		}
	}
	return out
}

func commandPayload(i *discordgo.Interaction, appID string) *discordevents.CommandPayloadV1 {
	data := i.ApplicationCommandData()
	p := &discordevents.CommandPayloadV1{
		Interaction: platform.InteractionRef{
			ID:        i.ID,
			AppID:     appID,
			Token:     i.Token,
			GuildID:   sharedtypes.GuildID(i.GuildID),
			ChannelID: sharedtypes.ChannelID(i.ChannelID),
		},
		Command: data.Name,
		Options: flattenOptions(data.Options),
	}
	if i.Member != nil {
		p.Permissions = i.Member.Permissions
		p.InvokerName = displayName(i.Member, nil)
		if i.Member.User != nil {
			p.Interaction.UserID = sharedtypes.DiscordID(i.Member.User.ID)
		}
	} else if i.User != nil {
		p.InvokerName = displayName(nil, i.User)
		p.Interaction.UserID = sharedtypes.DiscordID(i.User.ID)
	}
	return p
}
