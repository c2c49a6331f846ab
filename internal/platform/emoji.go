package platform

import (
	"regexp"
	"strings"
)

var customEmojiPattern = regexp.MustCompile(`^<a?:([A-Za-z0-9_~]{2,32}):(\d+)>$`)

// EmojiKey is the stored form of a reaction emoji. Custom emoji, animated or
// not, are keyed as <:name:id>; unicode emoji by their characters. Admin
// input and gateway events both go through here.
func EmojiKey(name, id string) string {
	if id != "" {
		return "<:" + name + ":" + id + ">"
	}
	return name
}

// ParseCustomEmoji splits a typed custom emoji (<:name:id> or <a:name:id>).
func ParseCustomEmoji(raw string) (name, id string, ok bool) {
	m := customEmojiPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// ReactionName turns an emoji key into the name:id form the reactions
// endpoint takes. Unicode keys pass through.
func ReactionName(key string) string {
	if strings.HasPrefix(key, "<:") && strings.HasSuffix(key, ">") {
		return strings.TrimSuffix(strings.TrimPrefix(key, "<:"), ">")
	}
	return key
}
