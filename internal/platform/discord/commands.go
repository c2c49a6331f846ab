package discord

import (
	"context"
	"fmt"

	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/bwmarrin/discordgo"
)

func perm(p int64) *int64 { return &p }

var (
	minLevel     = 1.0
	muteLevelMin = 1.0

	userOption = func(desc string, required bool) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: desc, Required: required}
	}
	channelOption = &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "channel",
		Description:  "Target channel",
		Required:     true,
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
	muteLevelOption = &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "level",
		Description: "Mute level",
		Required:    true,
		MinValue:    &muteLevelMin,
		MaxValue:    2,
	}
)

// commandDefinitions lists the slash commands the bot registers.
var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        discordevents.CommandProfile,
		Description: "Show a member's level, XP and bio",
		Options:     []*discordgo.ApplicationCommandOption{userOption("Member to show, defaults to you", false)},
	},
	{
		Name:        discordevents.CommandSetBio,
		Description: "Set the bio shown on your profile",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "bio", Description: "Your bio", Required: true, MaxLength: 1024},
		},
	},
	{
		Name:                     discordevents.CommandSetupMilestone,
		Description:              "Grant a role when members reach a level",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level", Required: true, MinValue: &minLevel},
			{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to grant", Required: true},
		},
	},
	{
		Name:                     discordevents.CommandRemoveMilestone,
		Description:              "Remove the milestone of a level",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "level", Description: "Level", Required: true, MinValue: &minLevel},
		},
	},
	{
		Name:        discordevents.CommandViewMilestones,
		Description: "List the milestone roles",
	},
	{
		Name:                     discordevents.CommandResyncMilestones,
		Description:              "Grant missing milestone roles to every member",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
	},
	{
		Name:                     discordevents.CommandSetupReactionRole,
		Description:              "Post a reaction role message",
		DefaultMemberPermissions: perm(discordgo.PermissionManageRoles),
		Options:                  []*discordgo.ApplicationCommandOption{channelOption},
	},
	{
		Name:                     discordevents.CommandRefreshReactions,
		Description:              "Reload the reaction roles of this server",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
	},
	{
		Name:                     discordevents.CommandSetupLevelUp,
		Description:              "Set the channel for level-up announcements",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
		Options:                  []*discordgo.ApplicationCommandOption{channelOption},
	},
	{
		Name:                     discordevents.CommandSetupWelcome,
		Description:              "Set the channel for welcome messages",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
		Options:                  []*discordgo.ApplicationCommandOption{channelOption},
	},
	{
		Name:                     discordevents.CommandSetupLogging,
		Description:              "Set the channel for moderation logs",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
		Options:                  []*discordgo.ApplicationCommandOption{channelOption},
	},
	{
		Name:                     discordevents.CommandSetupMuteRole,
		Description:              "Set the role used for a mute level",
		DefaultMemberPermissions: perm(discordgo.PermissionAdministrator),
		Options: []*discordgo.ApplicationCommandOption{
			muteLevelOption,
			{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Mute role", Required: true},
		},
	},
	{
		Name:                     discordevents.CommandMute,
		Description:              "Mute a member for a while",
		DefaultMemberPermissions: perm(discordgo.PermissionKickMembers),
		Options: []*discordgo.ApplicationCommandOption{
			userOption("Member to mute", true),
			muteLevelOption,
			{Type: discordgo.ApplicationCommandOptionString, Name: "duration", Description: "Minutes, or a phrase like \"2 hours\"", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Reason"},
		},
	},
	{
		Name:                     discordevents.CommandUnmute,
		Description:              "Lift a member's mute",
		DefaultMemberPermissions: perm(discordgo.PermissionKickMembers),
		Options:                  []*discordgo.ApplicationCommandOption{userOption("Member to unmute", true)},
	},
}

func knownCommand(name string) bool {
	for _, c := range discordevents.Commands {
		if c == name {
			return true
		}
	}
	return false
}

func (c *Client) registerCommands(ctx context.Context) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	registered, err := c.session.ApplicationCommandBulkOverwrite(c.appID(), c.cfg.GuildID, commandDefinitions, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to overwrite commands: %w", err)
	}
	c.logger.InfoContext(ctx, "Slash commands registered", attr.Int("count", len(registered)))
	return nil
}
