package sharedtypes

// GuildID is a Discord guild snowflake.
type GuildID string

// DiscordID is a Discord user snowflake.
type DiscordID string

// RoleID is a Discord role snowflake.
type RoleID string

// ChannelID is a Discord channel snowflake.
type ChannelID string

// MessageID is a Discord message snowflake.
type MessageID string

func (g GuildID) String() string   { return string(g) }
func (d DiscordID) String() string { return string(d) }
func (r RoleID) String() string    { return string(r) }
func (c ChannelID) String() string { return string(c) }
func (m MessageID) String() string { return string(m) }

// Mention renders the user mention markup.
func (d DiscordID) Mention() string { return "<@" + string(d) + ">" }

// Mention renders the role mention markup.
func (r RoleID) Mention() string { return "<@&" + string(r) + ">" }

// Mention renders the channel mention markup.
func (c ChannelID) Mention() string { return "<#" + string(c) + ">" }
