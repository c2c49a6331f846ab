package guildservice

import (
	"context"
	"errors"
	"fmt"

	guilddb "github.com/Black-And-White-Club/senshi-bot/app/modules/guild/infrastructure/repositories"
	discordevents "github.com/Black-And-White-Club/senshi-bot/internal/events/discord"
	"github.com/Black-And-White-Club/senshi-bot/internal/observability/attr"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
)

const (
	greetingColor = 0x008080
	welcomeImage  = "https://tenor.com/en-GB/view/kids-goku-peace-cool-shades-son-goku-gif-16874131.gif"
	goodbyeImage  = "https://tenor.com/en-GB/view/sailor-moon-sad-anime-alone-gif-17542952.gif"

	// InviteGreeting is posted to the system channel when the bot is invited.
	InviteGreeting = "Hello! Thank you for inviting me! Use `/help` to see what I can do!"
)

// WelcomeEmbed builds the greeting for a member who joined.
func WelcomeEmbed(m *discordevents.MemberPayloadV1) platform.Embed {
	mention := m.UserID.Mention()
	return platform.Embed{
		Title: fmt.Sprintf("YAY! Welcome to %s %s!", m.GuildName, m.DisplayName),
		Description: fmt.Sprintf("Yayyy! %s-sama has joined the fight to defend Earth with Son Goku and Sailor Moon.\n\n"+
			"We now have %d warriors to join the fight! But are you a Saiyan, a Senshi, or both?\n\n\n"+
			"%s-sama, please select your roles to identify your training grounds, your identification, "+
			"and other things Goku and Usagi will need to know (they are a bit clueless).",
			mention, m.MemberCount, mention),
		Color:    greetingColor,
		ImageURL: welcomeImage,
		Footer:   "Welcome to " + m.GuildName,
	}
}

// GoodbyeEmbed builds the farewell for a member who left.
func GoodbyeEmbed(m *discordevents.MemberPayloadV1) platform.Embed {
	return platform.Embed{
		Title: m.DisplayName + "-san has left us...",
		Description: fmt.Sprintf("O-oh... ... looks like %s-sama has left the fight to defend Earth with Son Goku and Sailor Moon. "+
			"As they go to rest to King Kai, we hope they'll reincarnate and come back better than last time!\n\n\n"+
			"%s will be remembered...\n\n"+
			"We are now left with **%d senshi warriors** to continue the fight.",
			m.UserID.Mention(), m.DisplayName, m.MemberCount),
		Color:    greetingColor,
		ImageURL: goodbyeImage,
		Footer:   "Goodbye from " + m.GuildName,
	}
}

// WelcomeMember posts the welcome embed. It reports false when the member is a
// bot or no welcome channel is configured.
func (s *GuildService) WelcomeMember(ctx context.Context, member *discordevents.MemberPayloadV1) (bool, error) {
	return s.greet(ctx, member, WelcomeEmbed)
}

// FarewellMember posts the goodbye embed to the welcome channel.
func (s *GuildService) FarewellMember(ctx context.Context, member *discordevents.MemberPayloadV1) (bool, error) {
	return s.greet(ctx, member, GoodbyeEmbed)
}

func (s *GuildService) greet(ctx context.Context, member *discordevents.MemberPayloadV1, build func(*discordevents.MemberPayloadV1) platform.Embed) (bool, error) {
	if member == nil || member.Bot {
		return false, nil
	}
	channel, err := s.channel(ctx, member.GuildID, guilddb.ChannelWelcome)
	if err != nil || channel == "" {
		return false, err
	}

	embed := build(member)
	if _, err := s.notifier.Send(ctx, channel, platform.Message{Embed: &embed}); err != nil {
		s.logger.WarnContext(ctx, "Failed to send greeting",
			attr.ExtractCorrelationID(ctx),
			attr.GuildID(member.GuildID),
			attr.UserID(member.UserID),
			attr.Error(err),
		)
		return false, fmt.Errorf("failed to send greeting: %w", err)
	}
	return true, nil
}

// channel returns the configured channel of kind, or "" if the guild has none.
func (s *GuildService) channel(ctx context.Context, guildID sharedtypes.GuildID, kind guilddb.ChannelKind) (sharedtypes.ChannelID, error) {
	cfg, err := s.repo.GetConfig(ctx, nil, guildID)
	if err != nil {
		if errors.Is(err, guilddb.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return cfg.Channel(kind), nil
}

// AnnounceArrival posts the invite greeting to channelID.
func (s *GuildService) AnnounceArrival(ctx context.Context, channelID sharedtypes.ChannelID) error {
	if channelID == "" {
		return nil
	}
	if _, err := s.notifier.Send(ctx, channelID, platform.Text(InviteGreeting)); err != nil {
		return fmt.Errorf("failed to send invite greeting: %w", err)
	}
	return nil
}
