package moderationservice

import (
	"fmt"
	"strconv"

	moderationdomain "github.com/Black-And-White-Club/senshi-bot/app/modules/moderation/domain"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const (
	mutedColor        = 0x2ECC71
	alreadyMutedColor = 0xE74C3C
	unmutedColor      = 0x008080
)

// MutedMessage announces an applied mute.
func MutedMessage(res MuteResult, moderatorID sharedtypes.DiscordID) platform.Message {
	return platform.Message{Embed: &platform.Embed{
		Title:       res.Member.DisplayName + " Muted",
		Description: fmt.Sprintf("Muted: <@%s>", res.Member.UserID),
		Color:       mutedColor,
		Thumbnail:   res.Member.AvatarURL,
		Fields: []platform.EmbedField{
			{Name: "Reason", Value: res.Reason, Inline: true},
			{Name: "Duration", Value: moderationdomain.FormatMinutes(res.Duration), Inline: true},
			{Name: "Level", Value: strconv.Itoa(res.Level), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", moderatorID), Inline: true},
		},
	}}
}

// AlreadyMutedMessage tells the moderator the member already holds the role.
func AlreadyMutedMessage(res MuteResult, moderatorID sharedtypes.DiscordID) platform.Message {
	return platform.Message{Embed: &platform.Embed{
		Title:       res.Member.DisplayName + " Already Muted",
		Description: fmt.Sprintf("Could not mute: <@%s>", res.Member.UserID),
		Color:       alreadyMutedColor,
		Fields: []platform.EmbedField{
			{Name: "Reason", Value: res.Reason, Inline: true},
			{Name: "Duration", Value: moderationdomain.FormatMinutes(res.Duration), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", moderatorID), Inline: true},
		},
	}}
}

// UnmutedMessage announces a manual unmute.
func UnmutedMessage(member platform.Member) platform.Message {
	return platform.Message{Embed: &platform.Embed{
		Title:       member.DisplayName + " Unmuted",
		Description: fmt.Sprintf("<@%s> was unmuted from the server", member.UserID),
		Color:       unmutedColor,
		Thumbnail:   member.AvatarURL,
	}}
}

func mutedExpiredMessage(userID sharedtypes.DiscordID) platform.Message {
	return platform.Message{Embed: &platform.Embed{
		Title:       "Mute Expired",
		Description: fmt.Sprintf("<@%s> was unmuted from the server", userID),
		Color:       unmutedColor,
	}}
}
