package help

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"HelperBot/bot"
	"HelperBot/commands"
	"HelperBot/utils"
)

// Embed builds the help message. With a command name it describes just that
// command; otherwise it lists every module and its commands.
func Embed(modules []*commands.ModuleInfo, command string) (*discordgo.MessageEmbed, bool) {
	command = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(command)), "/")
	if command != "" {
		for _, module := range modules {
			for _, cmd := range module.SlashCommands {
				if cmd.Name != command {
					continue
				}
				embed := &discordgo.MessageEmbed{
					Title:       fmt.Sprintf("Help: /%s", cmd.Name),
					Description: cmd.Description,
					Color:       0x00ff00,
				}
				if usage := usage(cmd); usage != "" {
					embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Usage", Value: usage})
				}
				embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Module", Value: module.Name})
				return embed, true
			}
		}
		return nil, false
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Help",
		Description: "Here is what I can do. For more information on a specific command, use `/help command:<name>`.",
		Color:       0x00ff00,
	}
	for _, module := range modules {
		var names []string
		for _, cmd := range module.SlashCommands {
			names = append(names, "`/"+cmd.Name+"`")
		}
		if len(names) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  module.Name,
			Value: module.Description + "\n" + strings.Join(names, ", "),
		})
	}
	return embed, true
}

func usage(cmd commands.SlashCommandInfo) string {
	var lines []string
	var subcommands bool
	for _, opt := range cmd.Options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			subcommands = true
			lines = append(lines, fmt.Sprintf("`/%s %s%s` %s", cmd.Name, opt.Name, optionList(opt.Options), opt.Description))
		}
	}
	if !subcommands {
		lines = append(lines, fmt.Sprintf("`/%s%s`", cmd.Name, optionList(cmd.Options)))
	}
	return strings.Join(lines, "\n")
}

func optionList(options []*discordgo.ApplicationCommandOption) string {
	var b strings.Builder
	for _, opt := range options {
		if opt.Required {
			fmt.Fprintf(&b, " %s:<%s>", opt.Name, opt.Name)
		} else {
			fmt.Fprintf(&b, " [%s]", opt.Name)
		}
	}
	return b.String()
}

func Help(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var command string
	if opt, ok := utils.OptionMap(i.ApplicationCommandData().Options)["command"]; ok {
		command = opt.StringValue()
	}

	embed, ok := Embed(commands.GetAllModules(), command)
	if !ok {
		if err := utils.RespondEphemeral(s, i, fmt.Sprintf("Command `%s` not found.", command)); err != nil {
			b.Logger.Error("failed to respond to interaction", "error", err)
		}
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.Logger.Error("failed to send help", "error", err)
	}
}
