package roles

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"HelperBot/bot"
	"HelperBot/utils"
	"HelperBot/views"
)

const maxChoices = 25

// RequestRole answers /role with a confirm dialog listing the changes.
func RequestRole(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		reply(b, s, i, "Roles can only be requested in a server.")
		return
	}

	opts := utils.OptionMap(i.ApplicationCommandData().Options)
	opt, ok := opts["rolename"]
	if !ok {
		return
	}
	requested := strings.TrimSpace(opt.StringValue())

	guildRoles, err := s.GuildRoles(i.GuildID)
	if err != nil {
		b.Logger.Error("failed to fetch guild roles", "guild_id", i.GuildID, "error", err)
		reply(b, s, i, "An error occurred while fetching server roles.")
		return
	}

	sets := b.Config.Guild(i.GuildID).RoleSets
	available := Available(sets, guildRoles)
	var setName string
	for name, set := range available {
		if strings.EqualFold(name, requested) {
			setName = set
			requested = name
			break
		}
	}
	if setName == "" {
		reply(b, s, i, fmt.Sprintf("%s isn't a role you can pick.", requested))
		return
	}

	target := utils.FindRoleByName(guildRoles, requested)
	if target == nil {
		reply(b, s, i, fmt.Sprintf("%s isn't a role you can pick.", requested))
		return
	}

	changes := Compute(sets[setName], target, i.Member, guildRoles)
	if changes.Empty() {
		reply(b, s, i, fmt.Sprintf("You already have %s.", target.Name))
		return
	}

	guildID := i.GuildID
	userID := i.Member.User.ID
	confirm := views.NewConfirm(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		applyChanges(b, s, i, guildID, userID, changes)
	})
	id := b.Views.Add(views.KindConfirm, userID, confirm)
	if err := utils.RespondEphemeralComponents(s, i, "Changes:\n"+changes.String(), confirm.Components(id)); err != nil {
		b.Logger.Error("failed to respond to interaction", "error", err)
	}
}

func applyChanges(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, guildID, userID string, changes Changes) {
	for _, r := range changes.Add {
		if err := s.GuildMemberRoleAdd(guildID, userID, r.ID); err != nil {
			b.Logger.Error("failed to add role", "guild_id", guildID, "user_id", userID, "role", r.Name, "error", err)
			views.Update(s, i, "I couldn't update your roles.", nil)
			return
		}
	}
	for _, r := range changes.Remove {
		if err := s.GuildMemberRoleRemove(guildID, userID, r.ID); err != nil {
			b.Logger.Error("failed to remove role", "guild_id", guildID, "user_id", userID, "role", r.Name, "error", err)
			views.Update(s, i, "I couldn't update your roles.", nil)
			return
		}
	}
	views.Update(s, i, "Roles updated.", nil)
}

// Autocomplete suggests self-assignable roles matching what has been typed.
func Autocomplete(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var typed string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "rolename" && opt.Focused {
			typed = opt.StringValue()
		}
	}

	var names []string
	if i.GuildID != "" {
		guildRoles, err := s.GuildRoles(i.GuildID)
		if err != nil {
			b.Logger.Error("failed to fetch guild roles", "guild_id", i.GuildID, "error", err)
		} else {
			names = Matching(Available(b.Config.Guild(i.GuildID).RoleSets, guildRoles), typed)
		}
	}
	if len(names) > maxChoices {
		names = names[:maxChoices]
	}

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(names))
	for _, name := range names {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.Logger.Error("failed to send autocomplete choices", "error", err)
	}
}

func reply(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if err := utils.RespondEphemeral(s, i, content); err != nil {
		b.Logger.Error("failed to respond to interaction", "error", err)
	}
}
