package reminders

import (
	"github.com/bwmarrin/discordgo"

	"HelperBot/commands"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Reminders",
		Description: "Reminder DMs you can set, list and delete",
		Category:    "Utility",
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "remind",
				Description: "Set and manage reminders.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "set",
						Description: "Schedule a reminder DM.",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type:        discordgo.ApplicationCommandOptionString,
								Name:        "content",
								Description: "What should I remind you about?",
								Required:    true,
							},
							{
								Type:        discordgo.ApplicationCommandOptionString,
								Name:        "time",
								Description: `A time and/or date in UTC, or start with "in" to schedule a specific duration from now.`,
								Required:    true,
							},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "list",
						Description: "View all your reminders",
					},
				},
				Handler: Remind,
			},
		},
		Components: map[string]commands.ComponentFunc{
			Kind: HandleDeleteView,
		},
	}

	commands.RegisterModule(module)
}
