// Package reminders implements the /remind command group: setting reminders,
// listing them and deleting them through an interactive view.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"HelperBot/bot"
	"HelperBot/reminder"
	"HelperBot/timeutil"
	"HelperBot/utils"
	"HelperBot/views"
)

// NoRemindersMessage is shown when a user has nothing scheduled.
const NoRemindersMessage = "No reminders set. You can make new ones with `/remind set`."

// SetMessage confirms a newly created reminder.
func SetMessage(e reminder.Entry, now time.Time) string {
	return fmt.Sprintf("I'll DM you \"%s\" %s.", e.Message, timeutil.FriendlyUntil(e.Due, now, true))
}

// ListMessage renders a user's reminders, soonest first.
func ListMessage(entries []reminder.Entry, now time.Time) string {
	if len(entries) == 0 {
		return NoRemindersMessage
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s:\n> %s",
			timeutil.FriendlyUntil(e.Due, now, false),
			strings.ReplaceAll(e.Message, reminder.Prefix, "")))
	}
	return strings.Join(lines, "\n")
}

// Remind dispatches the /remind subcommands.
func Remind(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	switch sub.Name {
	case "set":
		opts := utils.OptionMap(sub.Options)
		var content, when string
		if opt, ok := opts["content"]; ok {
			content = opt.StringValue()
		}
		if opt, ok := opts["time"]; ok {
			when = opt.StringValue()
		}
		SetReminder(b, s, i, content, when)
	case "list":
		ListReminders(b, s, i)
	}
}

func SetReminder(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, content, when string) {
	user := utils.InteractionUser(i)
	entry, err := b.Reminders.Create(context.Background(), user.ID, content, when)
	switch {
	case errors.Is(err, reminder.ErrUnparseable):
		respond(b, s, i, "Unable to parse time string: "+when, nil)
		return
	case err != nil:
		b.Logger.Error("failed to set reminder", "user_id", user.ID, "error", err)
		respond(b, s, i, "An error occurred while setting your reminder.", nil)
		return
	}
	respond(b, s, i, SetMessage(entry, b.Scheduler.Now()), nil)
}

func ListReminders(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := utils.InteractionUser(i)
	entries, err := b.Reminders.Pending(context.Background(), user.ID)
	if err != nil {
		b.Logger.Error("failed to list reminders", "user_id", user.ID, "error", err)
		respond(b, s, i, "An error occurred while loading your reminders.", nil)
		return
	}

	var components []discordgo.MessageComponent
	if len(entries) > 0 {
		view := NewDeleteView()
		components = view.Components(b.Views.Add(Kind, user.ID, view))
	}
	respond(b, s, i, ListMessage(entries, b.Scheduler.Now()), components)
}

// Render is how a press changes the delete view's message: a silent
// acknowledgement, or an edit to Content and Components.
type Render struct {
	Acknowledge bool
	Content     string
	Components  []discordgo.MessageComponent
}

// Press applies action to the delete view registered as viewID. Selected
// reminders are cancelled on apply and the list is redrawn.
func Press(ctx context.Context, b *bot.Bot, viewID, action string, values []string) (Render, error) {
	view, owner, ok := views.Lookup[*DeleteView](b.Views, viewID)
	if !ok {
		return Render{Acknowledge: true}, nil
	}

	switch action {
	case ActionOpen:
		entries, err := b.Reminders.Pending(ctx, owner)
		if err != nil {
			return Render{}, errors.Wrap(err, "failed to list reminders")
		}
		if !view.Open(entries) {
			return redraw(ctx, b, viewID, owner)
		}
		return Render{Content: ListMessage(entries, b.Scheduler.Now()), Components: view.Components(viewID)}, nil

	case ActionSelect:
		view.Select(values)

	case ActionApply:
		ids, ok := view.Apply()
		if !ok {
			break
		}
		for _, id := range ids {
			if err := b.Reminders.Cancel(ctx, id); err != nil {
				b.Logger.Error("failed to delete reminder", "reminder_id", id, "error", err)
			}
		}
		return redraw(ctx, b, viewID, owner)
	}
	return Render{Acknowledge: true}, nil
}

// redraw lists the owner's reminders under a fresh prompting view, or with
// no view once nothing is left.
func redraw(ctx context.Context, b *bot.Bot, viewID, owner string) (Render, error) {
	entries, err := b.Reminders.Pending(ctx, owner)
	if err != nil {
		return Render{}, errors.Wrap(err, "failed to list reminders")
	}
	if len(entries) == 0 {
		b.Views.Remove(viewID)
		return Render{Content: NoRemindersMessage}, nil
	}
	fresh := NewDeleteView()
	b.Views.Replace(viewID, fresh)
	return Render{Content: ListMessage(entries, b.Scheduler.Now()), Components: fresh.Components(viewID)}, nil
}

// HandleDeleteView handles presses on a delete view's components.
func HandleDeleteView(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, viewID, action string) {
	render, err := Press(context.Background(), b, viewID, action, i.MessageComponentData().Values)
	switch {
	case err != nil:
		b.Logger.Error("failed to update reminder list", "view_id", viewID, "error", err)
		respond(b, s, i, "An error occurred while loading your reminders.", nil)
	case render.Acknowledge:
		acknowledge(b, s, i)
	default:
		views.Update(s, i, render.Content, render.Components)
	}
}

func respond(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	if err := utils.RespondEphemeralComponents(s, i, content, components); err != nil {
		b.Logger.Error("failed to respond to interaction", "error", err)
	}
}

func acknowledge(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		b.Logger.Error("failed to acknowledge component", "error", err)
	}
}
