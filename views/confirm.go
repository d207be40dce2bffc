package views

import (
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// KindConfirm prefixes the custom ids of confirm dialogs.
const KindConfirm = "confirm"

// Button actions.
const (
	ActionConfirm = "yes"
	ActionCancel  = "no"
)

// CancelledMessage replaces the dialog when it is cancelled without a
// custom callback.
const CancelledMessage = "Action cancelled."

type ConfirmState int

const (
	Pending ConfirmState = iota
	Confirmed
	Cancelled
)

func (s ConfirmState) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Callback answers the button press that resolved a dialog.
type Callback func(s *discordgo.Session, i *discordgo.InteractionCreate)

// Confirm is a two-button dialog. It resolves once; later presses are
// ignored.
type Confirm struct {
	ConfirmLabel string
	CancelLabel  string
	OnConfirm    Callback
	OnCancel     Callback

	mu    sync.Mutex
	state ConfirmState
}

func NewConfirm(onConfirm Callback) *Confirm {
	return &Confirm{
		ConfirmLabel: "Confirm",
		CancelLabel:  "Cancel",
		OnConfirm:    onConfirm,
		OnCancel:     CancelAction,
	}
}

func (c *Confirm) State() ConfirmState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Press moves a pending dialog to Confirmed or Cancelled. It reports false
// when the dialog was already resolved or the action is unknown.
func (c *Confirm) Press(action string) (ConfirmState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Pending {
		return c.state, false
	}
	switch action {
	case ActionConfirm:
		c.state = Confirmed
	case ActionCancel:
		c.state = Cancelled
	default:
		return c.state, false
	}
	return c.state, true
}

// Components renders the dialog's buttons for the view registered as id.
func (c *Confirm) Components(id string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    c.ConfirmLabel,
					Style:    discordgo.SuccessButton,
					CustomID: CustomID(KindConfirm, id, ActionConfirm),
				},
				discordgo.Button{
					Label:    c.CancelLabel,
					Style:    discordgo.DangerButton,
					CustomID: CustomID(KindConfirm, id, ActionCancel),
				},
			},
		},
	}
}

// Handle applies a button press and runs the matching callback.
func (c *Confirm) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, action string) {
	state, ok := c.Press(action)
	if !ok {
		ack(s, i)
		return
	}
	cb := c.OnConfirm
	if state == Cancelled {
		cb = c.OnCancel
	}
	if cb == nil {
		cb = CancelAction
	}
	cb(s, i)
}

// CancelAction replaces the dialog with CancelledMessage.
func CancelAction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	Update(s, i, CancelledMessage, nil)
}

// Update edits the message the component belongs to. Passing nil
// components removes them.
func Update(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		slog.Error("failed to update view message", "error", err)
	}
}

func ack(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		slog.Error("failed to acknowledge component", "error", err)
	}
}
