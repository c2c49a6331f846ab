// Package reactionroledomain holds the emoji keys, the admin input parser
// and the in-memory reaction-role cache.
package reactionroledomain

import (
	"regexp"
	"strings"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

var (
	roleMentionPattern = regexp.MustCompile(`^<@&(\d+)>$`)
	snowflakePattern   = regexp.MustCompile(`^\d+$`)
)

// NormalizeEmoji turns an emoji as typed in a message into its key.
func NormalizeEmoji(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", apperrors.Invalid("emoji is empty")
	}
	if name, id, ok := platform.ParseCustomEmoji(raw); ok {
		return platform.EmojiKey(name, id), nil
	}
	if strings.HasPrefix(raw, "<") || strings.HasPrefix(raw, ":") {
		return "", apperrors.Invalid("unrecognised emoji %q", raw)
	}
	return raw, nil
}

// Pair binds one emoji to one role.
type Pair struct {
	Emoji  string             `json:"emoji"`
	RoleID sharedtypes.RoleID `json:"role_id"`
}

// ParsePairs reads "@Role emoji, @Role emoji" as typed by an admin. Role
// mentions arrive as <@&id>; a bare id is accepted too.
func ParsePairs(input string) ([]Pair, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, apperrors.Invalid("no roles and emojis provided")
	}

	var pairs []Pair
	seen := make(map[string]bool)
	for _, item := range strings.Split(input, ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, apperrors.Invalid("expected \"@Role emoji\" but got %q", strings.TrimSpace(item))
		}

		role, err := parseRole(fields[0])
		if err != nil {
			return nil, err
		}
		emoji, err := NormalizeEmoji(fields[1])
		if err != nil {
			return nil, err
		}
		if seen[emoji] {
			return nil, apperrors.Invalid("emoji %s is used more than once", emoji)
		}
		seen[emoji] = true
		pairs = append(pairs, Pair{Emoji: emoji, RoleID: role})
	}

	if len(pairs) == 0 {
		return nil, apperrors.Invalid("no roles and emojis provided")
	}
	return pairs, nil
}

func parseRole(token string) (sharedtypes.RoleID, error) {
	if m := roleMentionPattern.FindStringSubmatch(token); m != nil {
		return sharedtypes.RoleID(m[1]), nil
	}
	if snowflakePattern.MatchString(token) {
		return sharedtypes.RoleID(token), nil
	}
	return "", apperrors.Invalid("%q is not a role mention", token)
}
