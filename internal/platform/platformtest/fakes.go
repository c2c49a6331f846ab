// Package platformtest provides in-memory fakes of the platform capabilities.
package platformtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

// ------------------------
// Fake Membership
// ------------------------

// FakeMembership keeps guild roles and members in memory and records every call.
type FakeMembership struct {
	mu      sync.Mutex
	trace   []string
	Roles   map[sharedtypes.RoleID]platform.RoleHandle
	Members map[sharedtypes.DiscordID]*platform.Member
	Bot     platform.Member
	Manage  bool

	AddRoleFunc    func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error
	RemoveRoleFunc func(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error
}

var _ platform.Membership = (*FakeMembership)(nil)

// NewFakeMembership returns a membership whose bot holds a role at botPosition
// and has ManageRoles.
func NewFakeMembership(botPosition int) *FakeMembership {
	return &FakeMembership{
		Roles:   make(map[sharedtypes.RoleID]platform.RoleHandle),
		Members: make(map[sharedtypes.DiscordID]*platform.Member),
		Bot: platform.Member{
			UserID: "bot",
			Bot:    true,
			Roles:  []platform.RoleHandle{{ID: "bot-role", Position: botPosition}},
		},
		Manage: true,
	}
}

func (f *FakeMembership) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the recorded call sequence.
func (f *FakeMembership) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// AddGuildRole registers a role in the guild catalog.
func (f *FakeMembership) AddGuildRole(id sharedtypes.RoleID, position int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Roles[id] = platform.RoleHandle{ID: id, Position: position}
}

// AddMember registers a member holding the given roles, which must already be
// in the catalog.
func (f *FakeMembership) AddMember(userID sharedtypes.DiscordID, roles ...sharedtypes.RoleID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := &platform.Member{UserID: userID, DisplayName: string(userID)}
	for _, id := range roles {
		m.Roles = append(m.Roles, f.Roles[id])
	}
	f.Members[userID] = m
}

func (f *FakeMembership) FetchMember(_ context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (platform.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("FetchMember")
	m, ok := f.Members[userID]
	if !ok {
		return platform.Member{}, fmt.Errorf("member %s: %w", userID, apperrors.ErrNotFound)
	}
	out := *m
	out.GuildID = guildID
	out.Roles = append([]platform.RoleHandle(nil), m.Roles...)
	return out, nil
}

func (f *FakeMembership) BotMember(_ context.Context, guildID sharedtypes.GuildID) (platform.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("BotMember")
	out := f.Bot
	out.GuildID = guildID
	return out, nil
}

func (f *FakeMembership) ResolveRole(_ context.Context, _ sharedtypes.GuildID, roleID sharedtypes.RoleID) (platform.RoleHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ResolveRole")
	r, ok := f.Roles[roleID]
	if !ok {
		return platform.RoleHandle{}, fmt.Errorf("role %s: %w", roleID, apperrors.ErrNotFound)
	}
	return r, nil
}

func (f *FakeMembership) CanManageRoles(context.Context, sharedtypes.GuildID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CanManageRoles")
	return f.Manage, nil
}

func (f *FakeMembership) AddRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	f.mu.Lock()
	f.record("AddRole:" + string(roleID))
	hook := f.AddRoleFunc
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, guildID, userID, roleID); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return fmt.Errorf("member %s: %w", userID, apperrors.ErrNotFound)
	}
	if !m.HasRole(roleID) {
		m.Roles = append(m.Roles, f.Roles[roleID])
	}
	return nil
}

func (f *FakeMembership) RemoveRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	f.mu.Lock()
	f.record("RemoveRole:" + string(roleID))
	hook := f.RemoveRoleFunc
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, guildID, userID, roleID); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.Members[userID]
	if !ok {
		return fmt.Errorf("member %s: %w", userID, apperrors.ErrNotFound)
	}
	kept := m.Roles[:0]
	for _, r := range m.Roles {
		if r.ID != roleID {
			kept = append(kept, r)
		}
	}
	m.Roles = kept
	return nil
}

// ------------------------
// Fake Notifier
// ------------------------

// SentMessage is a message captured by FakeNotifier.
type SentMessage struct {
	ChannelID sharedtypes.ChannelID
	MessageID sharedtypes.MessageID
	Message   platform.Message
}

// FakeNotifier captures sent messages, reactions and replies.
type FakeNotifier struct {
	mu        sync.Mutex
	next      int
	Sent      []SentMessage
	Reactions []string
	Deleted   []sharedtypes.MessageID
	Replies   []platform.Message

	SendFunc        func(ctx context.Context, channelID sharedtypes.ChannelID, msg platform.Message) (sharedtypes.MessageID, error)
	AddReactionFunc func(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID, emoji string) error
}

var _ platform.Notifier = (*FakeNotifier)(nil)

func NewFakeNotifier() *FakeNotifier { return &FakeNotifier{} }

func (f *FakeNotifier) Send(ctx context.Context, channelID sharedtypes.ChannelID, msg platform.Message) (sharedtypes.MessageID, error) {
	if f.SendFunc != nil {
		if _, err := f.SendFunc(ctx, channelID, msg); err != nil {
			return "", err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := sharedtypes.MessageID(fmt.Sprintf("msg-%d", f.next))
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, MessageID: id, Message: msg})
	return id, nil
}

func (f *FakeNotifier) AddReaction(ctx context.Context, channelID sharedtypes.ChannelID, messageID sharedtypes.MessageID, emoji string) error {
	if f.AddReactionFunc != nil {
		if err := f.AddReactionFunc(ctx, channelID, messageID, emoji); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reactions = append(f.Reactions, emoji)
	return nil
}

func (f *FakeNotifier) DeleteMessage(_ context.Context, _ sharedtypes.ChannelID, messageID sharedtypes.MessageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, messageID)
	return nil
}

func (f *FakeNotifier) Reply(_ context.Context, _ platform.InteractionRef, msg platform.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Replies = append(f.Replies, msg)
	return nil
}

// Messages returns a copy of the sent messages.
func (f *FakeNotifier) Messages() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SentMessage(nil), f.Sent...)
}

// ------------------------
// Fake Reply Awaiter
// ------------------------

// FakeReplyAwaiter returns scripted replies in order. Once the script runs out
// it reports a timeout.
type FakeReplyAwaiter struct {
	mu      sync.Mutex
	replies []string
	Calls   int
}

var _ platform.ReplyAwaiter = (*FakeReplyAwaiter)(nil)

func NewFakeReplyAwaiter(replies ...string) *FakeReplyAwaiter {
	return &FakeReplyAwaiter{replies: replies}
}

func (f *FakeReplyAwaiter) AwaitReply(ctx context.Context, _ sharedtypes.ChannelID, _ sharedtypes.DiscordID, _ time.Duration, prompt func(context.Context) error) (string, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()
	if prompt != nil {
		if err := prompt(ctx); err != nil {
			return "", err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(f.replies) == 0 {
		return "", apperrors.ErrTimeout
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	return next, nil
}
