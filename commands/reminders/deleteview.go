package reminders

import (
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"HelperBot/reminder"
	"HelperBot/views"
)

// Kind prefixes the custom ids of delete views.
const Kind = "remind-delete"

// Delete view actions.
const (
	ActionOpen   = "open"
	ActionSelect = "select"
	ActionApply  = "apply"
)

// Discord caps select menus at 25 options and labels at 100 characters.
const (
	maxOptions     = 25
	maxLabelLength = 100
)

type DeleteState int

const (
	Prompting DeleteState = iota
	Selecting
	Applied
)

func (s DeleteState) String() string {
	switch s {
	case Selecting:
		return "selecting"
	case Applied:
		return "applied"
	default:
		return "prompting"
	}
}

// DeleteView lets a user pick reminders to delete. It starts with a single
// button; pressing it opens a multi-select of the user's reminders and turns
// the button into the delete action.
type DeleteView struct {
	mu       sync.Mutex
	state    DeleteState
	options  []reminder.Entry
	selected []string
}

func NewDeleteView() *DeleteView {
	return &DeleteView{}
}

func (v *DeleteView) State() DeleteState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Open moves a prompting view to Selecting with entries as the choices.
func (v *DeleteView) Open(entries []reminder.Entry) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != Prompting || len(entries) == 0 {
		return false
	}
	if len(entries) > maxOptions {
		entries = entries[:maxOptions]
	}
	v.options = entries
	v.state = Selecting
	return true
}

// Select records the chosen reminder ids, ignoring any that were not offered.
func (v *DeleteView) Select(ids []string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != Selecting {
		return false
	}
	offered := make(map[string]bool, len(v.options))
	for _, e := range v.options {
		offered[e.ID] = true
	}
	v.selected = v.selected[:0]
	for _, id := range ids {
		if offered[id] {
			v.selected = append(v.selected, id)
		}
	}
	return true
}

// Apply finishes the view and returns the ids to delete.
func (v *DeleteView) Apply() ([]string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != Selecting {
		return nil, false
	}
	v.state = Applied
	return append([]string(nil), v.selected...), true
}

// Components renders the view registered as id for its current state.
func (v *DeleteView) Components(id string) []discordgo.MessageComponent {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.state {
	case Prompting:
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Delete some reminders?",
					Style:    discordgo.SecondaryButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "🗑️"},
					CustomID: views.CustomID(Kind, id, ActionOpen),
				},
			}},
		}
	case Selecting:
		options := make([]discordgo.SelectMenuOption, 0, len(v.options))
		for _, e := range v.options {
			options = append(options, discordgo.SelectMenuOption{
				Label: optionLabel(e.Message),
				Value: e.ID,
			})
		}
		minValues := 1
		return []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    views.CustomID(Kind, id, ActionSelect),
					Placeholder: "Delete which reminder?",
					MinValues:   &minValues,
					MaxValues:   len(options),
					Options:     options,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Delete",
					Style:    discordgo.DangerButton,
					Emoji:    &discordgo.ComponentEmoji{Name: "🗑️"},
					CustomID: views.CustomID(Kind, id, ActionApply),
				},
			}},
		}
	default:
		return nil
	}
}

func optionLabel(message string) string {
	label := strings.TrimPrefix(message, reminder.Prefix)
	if label == "" {
		label = "(empty)"
	}
	if r := []rune(label); len(r) > maxLabelLength {
		label = string(r[:maxLabelLength-1]) + "…"
	}
	return label
}
