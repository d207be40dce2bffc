package utils

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := NewRateLimiter()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for n := 0; n < DefaultPerMinute; n++ {
		require.True(t, rl.Allow("u1", "remind"), "call %d", n)
	}
	assert.False(t, rl.Allow("u1", "remind"))
	assert.Equal(t, 4, rl.GetRetryAfter("u1", "remind"))

	assert.True(t, rl.Allow("u1", "role"), "limits are per command")
	assert.True(t, rl.Allow("u2", "remind"), "limits are per user")

	now = now.Add(4 * time.Second)
	assert.True(t, rl.Allow("u1", "remind"))
	assert.False(t, rl.Allow("u1", "remind"))
}

func TestRateLimiter_RetryAfterDoesNotConsume(t *testing.T) {
	rl := NewRateLimiterPerMinute(2)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.Equal(t, 0, rl.GetRetryAfter("u", "c"))
	assert.True(t, rl.Allow("u", "c"))
	assert.True(t, rl.Allow("u", "c"))
	assert.Equal(t, 30, rl.GetRetryAfter("u", "c"))
	assert.Equal(t, 30, rl.GetRetryAfter("u", "c"))
}

func TestFindChannel(t *testing.T) {
	channels := []*discordgo.Channel{
		{ID: "1", Name: "general", Type: discordgo.ChannelTypeGuildVoice},
		{ID: "2", Name: "General", Type: discordgo.ChannelTypeGuildText},
		{ID: "3", Name: "announcements", Type: discordgo.ChannelTypeGuildText},
	}

	assert.Equal(t, "2", FindChannel(channels, "general").ID, "text channel preferred")
	assert.Equal(t, "3", FindChannel(channels, "#Announcements").ID)
	assert.Equal(t, "1", FindChannel(channels, "1").ID)
	assert.Equal(t, "3", FindChannel(channels, "<#3>").ID)
	assert.Nil(t, FindChannel(channels, "random"))
}

func TestFindRoleByName(t *testing.T) {
	roles := []*discordgo.Role{{ID: "10", Name: "Red"}, {ID: "11", Name: "Blue"}}

	assert.Equal(t, "10", FindRoleByName(roles, "red").ID)
	assert.Equal(t, "11", FindRoleByName(roles, "<@&11>").ID)
	assert.Equal(t, "11", FindRoleByName(roles, "11").ID)
	assert.Nil(t, FindRoleByName(roles, "Green"))
}

func TestHasRole(t *testing.T) {
	m := &discordgo.Member{Roles: []string{"10"}}
	assert.True(t, HasRole(m, "10"))
	assert.False(t, HasRole(m, "11"))
	assert.False(t, HasRole(nil, "10"))
}

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "g"}},
	}}
	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "d"},
	}}
	assert.Equal(t, "g", InteractionUser(guild).ID)
	assert.Equal(t, "d", InteractionUser(dm).ID)
}

func TestOptionMap(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "content", Type: discordgo.ApplicationCommandOptionString, Value: "x"},
		{Name: "time", Type: discordgo.ApplicationCommandOptionString, Value: "5 minutes"},
	}
	m := OptionMap(opts)
	assert.Equal(t, "x", m["content"].StringValue())
	assert.Equal(t, "5 minutes", m["time"].StringValue())
	assert.Nil(t, m["missing"])
}
