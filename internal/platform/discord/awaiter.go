package discord

import (
	"context"
	"sync"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

type waiterKey struct {
	channel sharedtypes.ChannelID
	user    sharedtypes.DiscordID
}

// Awaiter hands the next message a user posts in a channel to whoever is
// waiting for it. A newer wait on the same key replaces the older one.
type Awaiter struct {
	mu      sync.Mutex
	waiters map[waiterKey]chan string
}

func NewAwaiter() *Awaiter {
	return &Awaiter{waiters: make(map[waiterKey]chan string)}
}

// Wait registers for the key, runs prompt if given, then blocks until Deliver
// matches, the timeout passes or ctx ends.
func (a *Awaiter) Wait(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.DiscordID, timeout time.Duration, prompt func(context.Context) error) (string, error) {
	key := waiterKey{channel: channelID, user: userID}
	ch := make(chan string, 1)

	a.mu.Lock()
	a.waiters[key] = ch
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		if a.waiters[key] == ch {
			delete(a.waiters, key)
		}
		a.mu.Unlock()
	}()

	if prompt != nil {
		if err := prompt(ctx); err != nil {
			return "", err
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case content := <-ch:
		return content, nil
	case <-timer.C:
		return "", apperrors.ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Deliver offers a message. It reports whether a waiter took it.
func (a *Awaiter) Deliver(channelID sharedtypes.ChannelID, userID sharedtypes.DiscordID, content string) bool {
	key := waiterKey{channel: channelID, user: userID}
	a.mu.Lock()
	ch, ok := a.waiters[key]
	if ok {
		delete(a.waiters, key)
	}
	a.mu.Unlock()
	if !ok {
		return false
	}
	ch <- content
	return true
}

// AwaitReply implements platform.ReplyAwaiter.
func (c *Client) AwaitReply(ctx context.Context, channelID sharedtypes.ChannelID, userID sharedtypes.DiscordID, timeout time.Duration, prompt func(context.Context) error) (string, error) {
	return c.awaiter.Wait(ctx, channelID, userID, timeout, prompt)
}
