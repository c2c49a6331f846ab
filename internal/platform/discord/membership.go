package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/senshi-bot/internal/apperrors"
	"github.com/Black-And-White-Club/senshi-bot/internal/platform"
	"github.com/Black-And-White-Club/senshi-bot/internal/types/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

func (c *Client) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := c.session.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	m, err := c.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("fetch member", err)
	}
	return m, nil
}

func (c *Client) roles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if g, err := c.session.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g.Roles, nil
	}
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}
	roles, err := c.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError("fetch roles", err)
	}
	return roles, nil
}

func (c *Client) toMember(ctx context.Context, guildID string, m *discordgo.Member) (platform.Member, error) {
	roles, err := c.roles(ctx, guildID)
	if err != nil {
		return platform.Member{}, err
	}
	return convertMember(guildID, m, roles), nil
}

// FetchMember returns the member with resolved role positions.
func (c *Client) FetchMember(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID) (platform.Member, error) {
	m, err := c.member(ctx, string(guildID), string(userID))
	if err != nil {
		return platform.Member{}, err
	}
	return c.toMember(ctx, string(guildID), m)
}

// BotMember returns the bot's own membership in the guild.
func (c *Client) BotMember(ctx context.Context, guildID sharedtypes.GuildID) (platform.Member, error) {
	if c.session.State == nil || c.session.State.User == nil {
		return platform.Member{}, errors.New("discord session not ready")
	}
	return c.FetchMember(ctx, guildID, sharedtypes.DiscordID(c.session.State.User.ID))
}

// ResolveRole returns the role and its position.
func (c *Client) ResolveRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) (platform.RoleHandle, error) {
	roles, err := c.roles(ctx, string(guildID))
	if err != nil {
		return platform.RoleHandle{}, err
	}
	for _, r := range roles {
		if r.ID == string(roleID) {
			return platform.RoleHandle{ID: roleID, Position: r.Position}, nil
		}
	}
	return platform.RoleHandle{}, fmt.Errorf("role %s: %w", roleID, apperrors.ErrNotFound)
}

// CanManageRoles reports whether the bot holds ManageRoles or Administrator.
func (c *Client) CanManageRoles(ctx context.Context, guildID sharedtypes.GuildID) (bool, error) {
	if c.session.State == nil || c.session.State.User == nil {
		return false, errors.New("discord session not ready")
	}
	botID := c.session.State.User.ID
	if g, err := c.session.State.Guild(string(guildID)); err == nil && g.OwnerID == botID {
		return true, nil
	}
	m, err := c.member(ctx, string(guildID), botID)
	if err != nil {
		return false, err
	}
	roles, err := c.roles(ctx, string(guildID))
	if err != nil {
		return false, err
	}
	perms := memberPermissions(string(guildID), m, roles)
	return perms&(discordgo.PermissionAdministrator|discordgo.PermissionManageRoles) != 0, nil
}

// AddRole grants roleID.
func (c *Client) AddRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	err := c.session.GuildMemberRoleAdd(string(guildID), string(userID), string(roleID), discordgo.WithContext(ctx))
	return mapError("add role", err)
}

// RemoveRole revokes roleID.
func (c *Client) RemoveRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	err := c.session.GuildMemberRoleRemove(string(guildID), string(userID), string(roleID), discordgo.WithContext(ctx))
	return mapError("remove role", err)
}
