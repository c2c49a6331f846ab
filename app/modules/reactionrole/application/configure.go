package reactionroleservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	reactionroledomain "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/domain"
	reactionroledb "github.com/Black-And-White-Club/senshi-bot/app/modules/reactionrole/infrastructure/repositories"
	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	guildevents "github.com/Black-And-White-Club/senshi-bot/internal/events/guild"
	reactionroleevents "github.com/Black-And-White-Club/senshi-bot/internal/events/reactionrole"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/operations"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/results"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/uptrace/bun"
)

// FlowState is a step of the interactive setup.
type FlowState int

const (
	AwaitingRolesAndEmojis FlowState = iota
	AwaitingEmbedText
	Publishing
	Persisting
	Done
	Aborted
)

func (s FlowState) String() string {
	switch s {
	case AwaitingRolesAndEmojis:
		return "awaiting_roles_and_emojis"
	case AwaitingEmbedText:
		return "awaiting_embed_text"
	case Publishing:
		return "publishing"
	case Persisting:
		return "persisting"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	// IntroPrompt answers the slash command itself.
	IntroPrompt = "Let's set up your reaction roles. Please reply with the roles, emojis, and message for the embed."

	pairsPrompt    = "Please provide the roles and corresponding emojis in this format: `@Role1 :emoji1:, @Role2 :emoji2:`."
	textPrompt     = "Please provide the message you want to display in the embed."
	noPairsMessage = "No roles and emojis provided."
	timeoutMessage = "You did not reply in time. Reaction role setup has been cancelled."
	failedMessage  = "An error occurred while setting up reaction roles. Please try again later."

	embedTitle = "React to Get a Role!"
	embedColor = 0xFFC0CB
)

var errNoPairs = fmt.Errorf("no roles and emojis provided: %w", apperrors.ErrInvalidInput)

// ConfigureRequest starts a setup. Prompts go to PromptChannelID; the
// reaction-role message is published in ChannelID.
type ConfigureRequest struct {
	GuildID         sharedtypes.GuildID
	ChannelID       sharedtypes.ChannelID
	PromptChannelID sharedtypes.ChannelID
	AdminID         sharedtypes.DiscordID
}

// ConfigureResult reports where a setup ended.
type ConfigureResult struct {
	State     FlowState
	MessageID sharedtypes.MessageID
	Pairs     []reactionroledomain.Pair
}

// StartConfigure runs Configure on a tracked goroutine. The flow keeps ctx's
// values but is cancelled by Close rather than by ctx.
func (s *ReactionRoleService) StartConfigure(ctx context.Context, req ConfigureRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if req.ChannelID == "" || req.PromptChannelID == "" {
		return apperrors.Invalid("a target channel is required")
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.ctx, cancel)
	s.flows.Add(1)
	go func() {
		defer s.flows.Done()
		defer stop()
		defer cancel()
		if _, err := s.Configure(runCtx, req); err != nil {
			s.logger.InfoContext(runCtx, "Reaction role setup ended early",
				attr.GuildID(req.GuildID),
				attr.UserID(req.AdminID),
				attr.Error(err),
			)
		}
	}()
	return nil
}

// Configure walks the setup to Done or Aborted. Timeouts and unreadable input
// abort with a message to the admin; nothing is persisted unless publishing
// succeeded.
func (s *ReactionRoleService) Configure(ctx context.Context, req ConfigureRequest) (ConfigureResult, error) {
	f := &configureFlow{svc: s, req: req, state: AwaitingRolesAndEmojis}
	_, err := operations.Unwrap(operations.WithTelemetry(ctx, s.instrumentation(), "Configure", string(req.GuildID), func(ctx context.Context) (results.OperationResult[FlowState, error], error) {
		if err := f.run(ctx); err != nil {
			if isUserError(err) {
				return results.FailureResult[FlowState, error](err), nil
			}
			return results.OperationResult[FlowState, error]{}, err
		}
		return results.SuccessResult[FlowState, error](f.state), nil
	}))
	return f.result(), err
}

func isUserError(err error) bool {
	return errors.Is(err, apperrors.ErrTimeout) || errors.Is(err, apperrors.ErrInvalidInput)
}

type configureFlow struct {
	svc       *ReactionRoleService
	req       ConfigureRequest
	state     FlowState
	pairs     []reactionroledomain.Pair
	text      string
	messageID sharedtypes.MessageID
}

func (f *configureFlow) result() ConfigureResult {
	return ConfigureResult{State: f.state, MessageID: f.messageID, Pairs: f.pairs}
}

func (f *configureFlow) run(ctx context.Context) error {
	for f.state != Done && f.state != Aborted {
		var err error
		switch f.state {
		case AwaitingRolesAndEmojis:
			err = f.awaitPairs(ctx)
		case AwaitingEmbedText:
			err = f.awaitText(ctx)
		case Publishing:
			err = f.publish(ctx)
		case Persisting:
			err = f.persist(ctx)
		}
		if err != nil {
			f.abort(ctx, err)
			return err
		}
	}
	return nil
}

func (f *configureFlow) ask(ctx context.Context, prompt string) (string, error) {
	reply, err := f.svc.awaiter.AwaitReply(ctx, f.req.PromptChannelID, f.req.AdminID, f.svc.timeout, func(ctx context.Context) error {
		if _, err := f.svc.notifier.Send(ctx, f.req.PromptChannelID, platform.Text(prompt)); err != nil {
			return fmt.Errorf("failed to send prompt: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func (f *configureFlow) awaitPairs(ctx context.Context) error {
	reply, err := f.ask(ctx, pairsPrompt)
	if err != nil {
		return err
	}
	if reply == "" {
		return errNoPairs
	}
	pairs, err := reactionroledomain.ParsePairs(reply)
	if err != nil {
		return err
	}
	f.pairs = pairs
	f.state = AwaitingEmbedText
	return nil
}

func (f *configureFlow) awaitText(ctx context.Context) error {
	reply, err := f.ask(ctx, textPrompt)
	if err != nil {
		return err
	}
	if reply == "" {
		return apperrors.Invalid("embed message is empty")
	}
	f.text = reply
	f.state = Publishing
	return nil
}

func (f *configureFlow) publish(ctx context.Context) error {
	id, err := f.svc.notifier.Send(ctx, f.req.ChannelID, platform.Message{Embed: &platform.Embed{
		Title:       embedTitle,
		Description: f.text,
		Color:       embedColor,
	}})
	if err != nil {
		return fmt.Errorf("failed to publish reaction role message: %w", err)
	}
	f.messageID = id

	for _, p := range f.pairs {
		if err := f.svc.notifier.AddReaction(ctx, f.req.ChannelID, id, platform.ReactionName(p.Emoji)); err != nil {
			f.logOrphan(ctx, err)
			return fmt.Errorf("failed to add reaction %s: %w", p.Emoji, err)
		}
	}
	f.state = Persisting
	return nil
}

func (f *configureFlow) persist(ctx context.Context) error {
	rows := make([]reactionroledb.ReactionRole, 0, len(f.pairs))
	for _, p := range f.pairs {
		rows = append(rows, reactionroledb.ReactionRole{
			GuildID:   f.req.GuildID,
			MessageID: f.messageID,
			ChannelID: f.req.ChannelID,
			Emoji:     p.Emoji,
			RoleID:    p.RoleID,
		})
	}

	_, err := operations.RunInTx(ctx, f.svc.db, func(ctx context.Context, db bun.IDB) (results.OperationResult[bool, error], error) {
		if err := f.svc.repo.CreateBindings(ctx, db, rows); err != nil {
			return results.OperationResult[bool, error]{}, err
		}
		return results.SuccessResult[bool, error](true), nil
	})
	if err != nil {
		f.logOrphan(ctx, err)
		return err
	}

	cfg := reactionroledomain.MessageConfig{ChannelID: f.req.ChannelID, MessageID: f.messageID, Pairs: f.pairs}
	f.svc.cache.Append(f.req.GuildID, cfg)
	f.state = Done

	f.emit(ctx, reactionroleevents.MessageConfiguredV1, &reactionroleevents.MessageConfiguredPayloadV1{
		GuildID:   f.req.GuildID,
		ChannelID: f.req.ChannelID,
		MessageID: f.messageID,
		Pairs:     len(f.pairs),
	})
	f.emit(ctx, guildevents.AuditRequestedV1, &guildevents.AuditRequestedPayloadV1{
		GuildID:     f.req.GuildID,
		Title:       "Reaction Roles Configured",
		Description: fmt.Sprintf("%s set up %d reaction roles in %s", f.req.AdminID.Mention(), len(f.pairs), f.req.ChannelID.Mention()),
	})
	f.say(ctx, fmt.Sprintf("Reaction role message has been set up in %s.", f.req.ChannelID.Mention()))
	return nil
}

// logOrphan records a published message that has no stored bindings.
// The message is left in place for an admin to remove.
func (f *configureFlow) logOrphan(ctx context.Context, err error) {
	f.svc.logger.WarnContext(ctx, "Reaction role message left without bindings",
		attr.GuildID(f.req.GuildID),
		attr.ChannelID(f.req.ChannelID),
		attr.MessageID(f.messageID),
		attr.Error(err),
	)
}

func (f *configureFlow) abort(ctx context.Context, err error) {
	f.state = Aborted
	// The flow context may already be cancelled; the notice still goes out.
	ctx = context.WithoutCancel(ctx)
	switch {
	case errors.Is(err, apperrors.ErrTimeout):
		f.say(ctx, timeoutMessage)
	case errors.Is(err, errNoPairs):
		f.say(ctx, noPairsMessage)
	case errors.Is(err, apperrors.ErrInvalidInput):
		f.say(ctx, "Reaction role setup cancelled: "+strings.TrimPrefix(err.Error(), apperrors.ErrInvalidInput.Error()+": "))
	case errors.Is(err, context.Canceled):
		// shutting down
	default:
		f.say(ctx, failedMessage)
	}
}

func (f *configureFlow) say(ctx context.Context, content string) {
	if _, err := f.svc.notifier.Send(ctx, f.req.PromptChannelID, platform.Text(content)); err != nil {
		f.svc.logger.WarnContext(ctx, "Failed to send setup message",
			attr.GuildID(f.req.GuildID),
			attr.Error(err),
		)
	}
}

func (f *configureFlow) emit(ctx context.Context, topic string, payload any) {
	if f.svc.publisher == nil {
		return
	}
	if err := f.svc.publisher.PublishEvent(ctx, topic, payload); err != nil {
		f.svc.logger.ErrorContext(ctx, "Failed to publish event",
			attr.String("topic", topic),
			attr.Error(err),
		)
	}
}
