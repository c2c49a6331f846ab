// Package platform describes the chat-platform capabilities the bot core relies on.
//
// Modules depend on these interfaces only. The Discord implementation lives in
// the discord subpackage.
package platform

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// RoleHandle is a guild role and its position in the role hierarchy.
type RoleHandle struct {
	ID       sharedtypes.RoleID `json:"id"`
	Position int                `json:"position"`
}

// Member is a guild member with the roles it currently holds.
type Member struct {
	GuildID     sharedtypes.GuildID   `json:"guild_id"`
	UserID      sharedtypes.DiscordID `json:"user_id"`
	DisplayName string                `json:"display_name"`
	AvatarURL   string                `json:"avatar_url,omitempty"`
	Bot         bool                  `json:"bot"`
	Roles       []RoleHandle          `json:"roles"`
}

// HasRole reports whether the member holds role.
func (m Member) HasRole(role sharedtypes.RoleID) bool {
	for _, r := range m.Roles {
		if r.ID == role {
			return true
		}
	}
	return false
}

// Highest returns the member's highest role. A member without roles sits at
// the @everyone position 0.
func (m Member) Highest() RoleHandle {
	var highest RoleHandle
	for _, r := range m.Roles {
		if r.Position > highest.Position {
			highest = r
		}
	}
	return highest
}

// Outranks reports whether the member's highest role is strictly above role.
func (m Member) Outranks(role RoleHandle) bool {
	return m.Highest().Position > role.Position
}

// Membership reads members and roles and mutates role assignments.
type Membership interface {
	FetchMember(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (Member, error)
	BotMember(ctx context.Context, guildID sharedtypes.GuildID) (Member, error)
	// ResolveRole returns apperrors.ErrNotFound when the role no longer exists.
	ResolveRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (RoleHandle, error)
	CanManageRoles(ctx context.Context, guildID sharedtypes.GuildID) (bool, error)
	AddRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error
	RemoveRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error
}

// Notifier sends messages to channels and interactions.
type Notifier interface {
	Send(ctx context.Context, channelID sharedtypes.ChannelID, msg Message) (sharedtypes.MessageID, error)
	AddReaction(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID, emoji string) error
	DeleteMessage(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID) error
	Reply(ctx context.Context, interaction InteractionRef, msg Message) error
}

// ReplyAwaiter waits for the next message a user posts in a channel.
type ReplyAwaiter interface {
	// AwaitReply registers the wait before calling prompt, so an answer posted
	// while the prompt is in flight still counts. A prompt error ends the wait
	// and is returned; nothing arriving in time gives apperrors.ErrTimeout.
	AwaitReply(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.DiscordID, timeout time.Duration, prompt func(context.Context) error) (string, error)
}

// InteractionRef identifies a deferred slash-command interaction that still
// needs its reply.
type InteractionRef struct {
	ID        string                `json:"id"`
	AppID     string                `json:"app_id"`
	Token     string                `json:"token"`
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	ChannelID sharedtypes.ChannelID `json:"channel_id"`
	UserID    sharedtypes.DiscordID `json:"user_id"`
}

// Message is a plain or embed message.
type Message struct {
	Content   string `json:"content,omitempty"`
	Embed     *Embed `json:"embed,omitempty"`
	Ephemeral bool   `json:"ephemeral,omitempty"`
}

// Embed is a rich message body.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Footer      string       `json:"footer,omitempty"`
	Timestamp   *time.Time   `json:"timestamp,omitempty"`
}

// EmbedField is one name/value pair of an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Text builds a plain content message.
func Text(content string) Message { return Message{Content: content} }

// EphemeralText builds a plain content message visible only to the invoker.
func EphemeralText(content string) Message { return Message{Content: content, Ephemeral: true} }
