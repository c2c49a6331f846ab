package authdomain

import (
	"testing"

	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/stretchr/testify/assert"
)

func TestClaimsGuildAccess(t *testing.T) {
	c := &Claims{
		UserID: "u1",
		Guilds: []GuildAccess{
			{GuildID: "member-only"},
			{GuildID: "admin", Admin: true},
		},
	}

	tests := []struct {
		guild      string
		view, edit bool
	}{
		{"member-only", true, false},
		{"admin", true, true},
		{"stranger", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.guild, func(t *testing.T) {
			assert.Equal(t, tt.view, c.CanView(sharedtypes.GuildID(tt.guild)))
			assert.Equal(t, tt.edit, c.CanManage(sharedtypes.GuildID(tt.guild)))
		})
	}

	var none *Claims
	assert.False(t, none.CanView("admin"))
}
