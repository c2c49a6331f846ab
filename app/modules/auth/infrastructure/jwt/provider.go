package authjwt

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/auth/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "senshi-bot"

// Validation failures. Callers treat all three as an unauthenticated session.
var (
	ErrInvalidToken     = errors.New("dashboard session token is malformed")
	ErrExpiredToken     = errors.New("dashboard session has expired")
	ErrInvalidSignature = errors.New("dashboard session signature mismatch")
)

// Provider signs and verifies dashboard tokens.
type Provider interface {
	GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*authdomain.Claims, error)
}

type dashboardClaims struct {
	jwt.RegisteredClaims
	Username string                   `json:"username,omitempty"`
	Guilds   []authdomain.GuildAccess `json:"guilds,omitempty"`
}

type provider struct {
	secret []byte
	now    func() time.Time
}

// NewProvider creates a new HS256 JWT provider.
func NewProvider(secret string) Provider {
	return &provider{secret: []byte(secret), now: time.Now}
}

// GenerateToken creates a signed JWT token from the given claims.
func (p *provider) GenerateToken(c *authdomain.Claims, ttl time.Duration) (string, error) {
	if c == nil || c.UserID == "" {
		return "", ErrInvalidToken
	}
	now := p.now()
	claims := &dashboardClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   string(c.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: c.Username,
		Guilds:   c.Guilds,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken validates a JWT token and returns the domain claims if valid.
func (p *provider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dashboardClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*dashboardClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	out := &authdomain.Claims{
		UserID:   sharedtypes.DiscordID(claims.Subject),
		Username: claims.Username,
		Guilds:   claims.Guilds,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
