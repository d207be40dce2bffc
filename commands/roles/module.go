package roles

import (
	"github.com/bwmarrin/discordgo"

	"HelperBot/commands"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Roles",
		Description: "Self-assignable roles grouped into rolesets",
		Category:    "Roles",
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "role",
				Description: "Add or remove one of the server's self-assignable roles",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "rolename",
						Description:  "Pick a role!",
						Required:     true,
						Autocomplete: true,
					},
				},
				Handler:      RequestRole,
				Autocomplete: Autocomplete,
			},
		},
	}

	commands.RegisterModule(module)
}
