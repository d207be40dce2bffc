package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"HelperBot/bot"
	"HelperBot/utils"
	"HelperBot/views"
)

func init() {
	ComponentHandlers[views.KindConfirm] = handleConfirm
}

// HandleInteraction returns the session handler routing every interaction
// to the registered slash, autocomplete and component handlers.
func HandleInteraction(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleCommand(b, s, i)
		case discordgo.InteractionApplicationCommandAutocomplete:
			if handler, ok := AutocompleteHandlers[i.ApplicationCommandData().Name]; ok {
				handler(b, s, i)
			}
		case discordgo.InteractionMessageComponent:
			handleComponent(b, s, i)
		}
	}
}

func handleCommand(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	name := i.ApplicationCommandData().Name
	handler, ok := SlashCommandHandlers[name]
	if !ok {
		b.Logger.Warn("unknown slash command", "command", name)
		return
	}

	user := utils.InteractionUser(i)
	if user != nil && !b.Limiter.Allow(user.ID, name) {
		retry := b.Limiter.GetRetryAfter(user.ID, name)
		reply(b, s, i, fmt.Sprintf("You're doing that too often. Try again in %d seconds.", retry))
		return
	}
	handler(b, s, i)
}

// Replies to presses on views that can no longer be used.
const (
	ExpiredMessage  = "This menu has expired. Run the command again."
	NotOwnerMessage = "This menu belongs to someone else."
)

type componentRoute struct {
	handler ComponentFunc
	viewID  string
	action  string
	denial  string
}

// routeComponent resolves a press on customID by userID. It reports false
// for ids no module handles; a non-empty denial is sent instead of running
// the handler.
func routeComponent(b *bot.Bot, customID, userID string) (componentRoute, bool) {
	kind, viewID, action, ok := views.ParseCustomID(customID)
	if !ok {
		return componentRoute{}, false
	}
	handler, ok := ComponentHandlers[kind]
	if !ok {
		b.Logger.Warn("no handler for component", "kind", kind)
		return componentRoute{}, false
	}

	route := componentRoute{handler: handler, viewID: viewID, action: action}
	_, owner, ok := b.Views.Get(viewID)
	switch {
	case !ok:
		route.denial = ExpiredMessage
	case userID == "" || userID != owner:
		route.denial = NotOwnerMessage
	}
	return route, true
}

func handleComponent(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var userID string
	if user := utils.InteractionUser(i); user != nil {
		userID = user.ID
	}
	route, ok := routeComponent(b, i.MessageComponentData().CustomID, userID)
	if !ok {
		return
	}
	if route.denial != "" {
		reply(b, s, i, route.denial)
		return
	}
	route.handler(b, s, i, route.viewID, route.action)
}

func handleConfirm(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, viewID, action string) {
	c, _, ok := views.Lookup[*views.Confirm](b.Views, viewID)
	if !ok {
		return
	}
	c.Handle(s, i, action)
	if c.State() != views.Pending {
		b.Views.Remove(viewID)
	}
}

func reply(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	if err := utils.RespondEphemeral(s, i, content); err != nil {
		b.Logger.Error("failed to respond to interaction", "error", err)
	}
}
