package help

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HelperBot/commands"
)

var modules = []*commands.ModuleInfo{
	{
		Name:        "Reminders",
		Description: "Reminder DMs",
		SlashCommands: []commands.SlashCommandInfo{{
			Name:        "remind",
			Description: "Set and manage reminders.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Schedule a reminder DM.",
					Options: []*discordgo.ApplicationCommandOption{
						{Name: "content", Required: true},
						{Name: "time", Required: true},
					},
				},
				{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "list", Description: "View all your reminders"},
			},
		}},
	},
	{
		Name:        "Roles",
		Description: "Self-assignable roles",
		SlashCommands: []commands.SlashCommandInfo{{
			Name:        "role",
			Description: "Pick a role",
			Options:     []*discordgo.ApplicationCommandOption{{Name: "rolename", Required: true}},
		}},
	},
	{Name: "Empty"},
}

func TestEmbed_Overview(t *testing.T) {
	embed, ok := Embed(modules, "")
	require.True(t, ok)
	require.Len(t, embed.Fields, 2, "modules without commands are skipped")
	assert.Equal(t, "Reminders", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "`/remind`")
	assert.Equal(t, "Roles", embed.Fields[1].Name)
}

func TestEmbed_SingleCommand(t *testing.T) {
	embed, ok := Embed(modules, "/Remind")
	require.True(t, ok)
	assert.Equal(t, "Help: /remind", embed.Title)
	require.NotEmpty(t, embed.Fields)
	assert.Equal(t, "Usage", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "`/remind set content:<content> time:<time>` Schedule a reminder DM.")
	assert.Contains(t, embed.Fields[0].Value, "`/remind list` View all your reminders")

	embed, ok = Embed(modules, "role")
	require.True(t, ok)
	assert.Equal(t, "`/role rolename:<rolename>`", embed.Fields[0].Value)
}

func TestEmbed_UnknownCommand(t *testing.T) {
	_, ok := Embed(modules, "nope")
	assert.False(t, ok)
}
