package help

import (
	"github.com/bwmarrin/discordgo"

	"HelperBot/commands"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Help",
		Description: "Help system with command documentation",
		Category:    "General",
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "help",
				Description: "Displays help information for commands",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "command",
						Description: "A command to describe",
					},
				},
				Handler: Help,
			},
		},
	}

	commands.RegisterModule(module)
}
