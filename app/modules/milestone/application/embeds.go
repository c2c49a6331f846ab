package milestoneservice

import (
	"fmt"
	"strings"

	milestonedomain "github.com/Black-And-White-Club/senshi-bot/app/modules/milestone/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const (
	transformationTitle = "🎉 **Transformation Reached!** 🎉"
	transformationImage = "https://tenor.com/en-GB/view/sailor-moon-anime-moon-prism-power-moon-prism-power-makeup-serena-gif-15851654.gif"
	transformationColor = 0x008080
	keepTrainingColor   = 0xFFD700
)

// GrantedEmbed announces a newly granted milestone role.
func GrantedEmbed(userID sharedtypes.DiscordID, b milestonedomain.Binding) *platform.Embed {
	return &platform.Embed{
		Title: transformationTitle,
		Description: fmt.Sprintf("### %s has been granted %s for reaching Level %d!\n\n**Keep training to reach the next transformation!**",
			userID.Mention(), b.RoleID.Mention(), b.Level),
		ImageURL: transformationImage,
		Color:    transformationColor,
	}
}

// AlreadyHeldEmbed repeats the announcement for a role the member holds.
func AlreadyHeldEmbed(userID sharedtypes.DiscordID, b milestonedomain.Binding) *platform.Embed {
	return &platform.Embed{
		Title: transformationTitle,
		Description: fmt.Sprintf("**%s has been granted %s for reaching Level %d!**\n\nKeep training to reach the next transformation!",
			userID.Mention(), b.RoleID.Mention(), b.Level),
		ImageURL: transformationImage,
		Color:    transformationColor,
	}
}

// KeepTrainingEmbed is sent on level-up when no milestone applies.
func KeepTrainingEmbed(userID sharedtypes.DiscordID, level int) *platform.Embed {
	return &platform.Embed{
		Title:       "Keep Training!",
		Description: fmt.Sprintf("Great job, %s! You're currently at level %d. Keep training to reach the next transformation!", userID.Mention(), level),
		Color:       keepTrainingColor,
	}
}

// MilestoneListEmbed lists the guild's milestones.
func MilestoneListEmbed(bindings []milestonedomain.Binding) *platform.Embed {
	desc := "No milestones set"
	if len(bindings) > 0 {
		lines := make([]string, 0, len(bindings))
		for _, b := range bindings {
			lines = append(lines, fmt.Sprintf("Level %d → %s", b.Level, b.RoleID.Mention()))
		}
		desc = strings.Join(lines, "\n")
	}
	return &platform.Embed{
		Title:       "Milestone Levels",
		Description: desc,
		Color:       transformationColor,
	}
}
