// Package discordevents holds the topics published by the Discord gateway adapter
// and the topics it consumes to talk back to Discord.
package discordevents

import (
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const (
	MessageCreatedV1  = "discord.message.created.v1"
	ReactionAddedV1   = "discord.reaction.added.v1"
	ReactionRemovedV1 = "discord.reaction.removed.v1"
	MemberJoinedV1    = "discord.member.joined.v1"
	MemberLeftV1      = "discord.member.left.v1"
	GuildJoinedV1     = "discord.guild.joined.v1"
	GuildLeftV1       = "discord.guild.left.v1"

	// InteractionReplyRequestedV1 asks the adapter to answer a deferred interaction.
	InteractionReplyRequestedV1 = "discord.interaction.reply.requested.v1"
)

// Slash command names.
const (
	CommandProfile           = "profile"
	CommandSetBio            = "setbio"
	CommandSetupMilestone    = "setup-milestone"
	CommandRemoveMilestone   = "remove-milestone"
	CommandViewMilestones    = "view-milestones"
	CommandResyncMilestones  = "resync-milestones"
	CommandSetupReactionRole = "setup-reaction-role"
	CommandRefreshReactions  = "refresh-reactions"
	CommandSetupLevelUp      = "setup-levelup-channel"
	CommandSetupWelcome      = "setup-welcome-channel"
	CommandSetupLogging      = "setup-logging-channel"
	CommandSetupMuteRole     = "setup-mute-role"
	CommandMute              = "mod-mute"
	CommandUnmute            = "mod-unmute"
)

// Commands lists every command the adapter forwards.
var Commands = []string{
	CommandProfile,
	CommandSetBio,
	CommandSetupMilestone,
	CommandRemoveMilestone,
	CommandViewMilestones,
	CommandResyncMilestones,
	CommandSetupReactionRole,
	CommandRefreshReactions,
	CommandSetupLevelUp,
	CommandSetupWelcome,
	CommandSetupLogging,
	CommandSetupMuteRole,
	CommandMute,
	CommandUnmute,
}

// CommandTopic returns the topic a slash command is published on.
func CommandTopic(name string) string {
	return "discord.command." + name + ".v1"
}

// MessageCreatedPayloadV1 is a guild text message.
type MessageCreatedPayloadV1 struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	ChannelID   sharedtypes.ChannelID `json:"channel_id"`
	MessageID   sharedtypes.MessageID `json:"message_id"`
	UserID      sharedtypes.DiscordID `json:"user_id"`
	DisplayName string                `json:"display_name"`
	Bot         bool                  `json:"bot"`
}

// ReactionPayloadV1 is a reaction added to or removed from a message.
// Emoji is already normalised to its key form.
type ReactionPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	MessageID sharedtypes.MessageID `json:"message_id"`
	UserID    sharedtypes.DiscordID `json:"user_id"`
	Emoji     string                `json:"emoji"`
	Bot       bool                  `json:"bot"`
}

// MemberPayloadV1 is a member joining or leaving a guild.
type MemberPayloadV1 struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	GuildName   string                `json:"guild_name"`
	UserID      sharedtypes.DiscordID `json:"user_id"`
	DisplayName string                `json:"display_name"`
	Bot         bool                  `json:"bot"`
	MemberCount int                   `json:"member_count"`
}

// GuildPayloadV1 is a guild becoming available to the bot or the bot leaving it.
// Invited is false when the guild is only being replayed on connect.
type GuildPayloadV1 struct {
	GuildID         sharedtypes.GuildID   `json:"guild_id"`
	GuildName       string                `json:"guild_name"`
	SystemChannelID sharedtypes.ChannelID `json:"system_channel_id,omitempty"`
	Invited         bool                  `json:"invited"`
}

// CommandPayloadV1 is a deferred slash-command invocation. Options hold the
// string form of each option; user, role and channel options carry their ids.
type CommandPayloadV1 struct {
	Interaction platform.InteractionRef `json:"interaction"`
	Command     string                  `json:"command"`
	InvokerName string                  `json:"invoker_name"`
	Options     map[string]string       `json:"options"`
	// Permissions is the invoker's resolved permission bitset in the channel.
	Permissions int64 `json:"permissions,string"`
}

// Discord permission bits checked by command handlers.
const (
	PermissionKickMembers     int64 = 1 << 1
	PermissionAdministrator   int64 = 1 << 3
	PermissionManageChannels  int64 = 1 << 4
	PermissionManageGuild     int64 = 1 << 5
	PermissionManageMessages  int64 = 1 << 13
	PermissionManageRoles     int64 = 1 << 28
	PermissionModerateMembers int64 = 1 << 40
)

// Can reports whether the invoker holds perm. Administrator implies every permission.
func (p *CommandPayloadV1) Can(perm int64) bool {
	return p.Permissions&PermissionAdministrator != 0 || p.Permissions&perm == perm
}

// Option returns the named option or "".
func (p *CommandPayloadV1) Option(name string) string {
	if p.Options == nil {
		return ""
	}
	return p.Options[name]
}

// InteractionReplyPayloadV1 answers a deferred interaction.
type InteractionReplyPayloadV1 struct {
	Interaction platform.InteractionRef `json:"interaction"`
	Message     platform.Message        `json:"message"`
}

// NewReply builds the reply payload for a command invocation.
func NewReply(p *CommandPayloadV1, msg platform.Message) *InteractionReplyPayloadV1 {
	return &InteractionReplyPayloadV1{Interaction: p.Interaction, Message: msg}
}
