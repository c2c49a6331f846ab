package reactionroledomain

import (
	"strings"
	"testing"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalizeEmoji(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "unicode", raw: "🔥", want: "🔥"},
		{name: "custom", raw: "<:pepe:123456>", want: "<:pepe:123456>"},
		{name: "animated is keyed as static", raw: "<a:dance:42>", want: "<:dance:42>"},
		{name: "surrounding space", raw: "  ✅ ", want: "✅"},
		{name: "shortcode without id", raw: ":pepe:", wantErr: true},
		{name: "broken custom", raw: "<:pepe>", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmoji(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Pair
		wantErr bool
	}{
		{
			name:  "two pairs",
			input: "<@&111> 🔥, <@&222> <:pepe:9>",
			want:  []Pair{{Emoji: "🔥", RoleID: "111"}, {Emoji: "<:pepe:9>", RoleID: "222"}},
		},
		{
			name:  "bare role id and trailing comma",
			input: "333 ✅,",
			want:  []Pair{{Emoji: "✅", RoleID: "333"}},
		},
		{name: "empty", input: "   ", wantErr: true},
		{name: "missing emoji", input: "<@&111>", wantErr: true},
		{name: "user mention instead of role", input: "<@111> 🔥", wantErr: true},
		{name: "duplicate emoji", input: "<@&1> 🔥, <@&2> 🔥", wantErr: true},
		{name: "too many tokens", input: "<@&1> 🔥 extra", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePairs(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairs_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		var want []Pair
		var parts []string
		for i := 0; i < n; i++ {
			role := sharedtypes.RoleID(rapid.StringMatching(`[1-9][0-9]{5,18}`).Draw(t, "role"))
			name := rapid.StringMatching(`[a-z_]{2,10}`).Draw(t, "name")
			id := rapid.StringMatching(`[1-9][0-9]{5,18}`).Draw(t, "id")
			emoji := platform.EmojiKey(name, id+strings.Repeat("0", i))
			want = append(want, Pair{Emoji: emoji, RoleID: role})
			parts = append(parts, role.Mention()+" "+emoji)
		}

		got, err := ParsePairs(strings.Join(parts, ", "))
		if err != nil {
			t.Fatalf("ParsePairs: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("got %d pairs, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("pair %d: got %+v, want %+v", i, got[i], want[i])
			}
		}
	})
}
