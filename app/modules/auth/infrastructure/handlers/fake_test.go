package authhandlers

import (
	"context"
	"errors"

	authservice "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/domain"
)

// FakeService is a programmable authservice.Service.
type FakeService struct {
	trace []string

	CompleteLoginFunc func(ctx context.Context, code string) (*authservice.Session, error)
	Tokens            map[string]*authdomain.Claims
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

// Trace returns the order of calls.
func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) LoginURL(state string) string {
	f.record("LoginURL")
	return "https://discord.example/authorize?state=" + state
}

func (f *FakeService) CompleteLogin(ctx context.Context, code string) (*authservice.Session, error) {
	f.record("CompleteLogin")
	if f.CompleteLoginFunc != nil {
		return f.CompleteLoginFunc(ctx, code)
	}
	return nil, errors.New("not configured")
}

func (f *FakeService) Authenticate(_ context.Context, token string) (*authdomain.Claims, error) {
	f.record("Authenticate")
	if c, ok := f.Tokens[token]; ok {
		return c, nil
	}
	return nil, authservice.ErrUnauthorized
}

var _ authservice.Service = (*FakeService)(nil)
