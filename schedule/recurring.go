package schedule

import (
	"context"
	"log/slog"

	"github.com/lithammer/shortuuid/v4"

	"HelperBot/recur"
)

// ChannelSender posts a message to a channel.
type ChannelSender interface {
	SendChannel(ctx context.Context, channelID, content string) error
}

// Recurring keeps announcement chains alive: every firing sends its message
// and arms the next occurrence. Nothing is persisted; chains are rebuilt from
// configuration at startup.
type Recurring struct {
	sched  *Scheduler
	sender ChannelSender
	logger *slog.Logger
}

// NewRecurring creates an engine that arms its timers on sched.
func NewRecurring(sched *Scheduler, sender ChannelSender) *Recurring {
	return &Recurring{
		sched:  sched,
		sender: sender,
		logger: sched.logger,
	}
}

// Start parses expr and arms the first occurrence after now. An expression
// without any future occurrence starts nothing and is not an error.
func (r *Recurring) Start(expr, channelID, message string) error {
	rule, err := recur.Parse(expr)
	if err != nil {
		return err
	}
	chain := &chain{
		id:        "recurring:" + shortuuid.New(),
		expr:      expr,
		rule:      rule,
		channelID: channelID,
		message:   message,
	}
	r.arm(chain)
	return nil
}

type chain struct {
	id        string
	expr      string
	rule      recur.Rule
	channelID string
	message   string
}

func (r *Recurring) arm(c *chain) {
	next, ok := c.rule.Next(r.sched.Now())
	if !ok {
		r.logger.Debug("recurring schedule finished", "expr", c.expr, "channel", c.channelID)
		return
	}
	r.sched.Schedule(c.id, next, func(ctx context.Context) {
		if err := r.sender.SendChannel(ctx, c.channelID, c.message); err != nil {
			r.logger.Error("failed to send recurring message", "channel", c.channelID, "error", err)
		}
		r.arm(c)
	})
}
