package bot

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"HelperBot/config"
	"HelperBot/kv"
	"HelperBot/reminder"
	"HelperBot/schedule"
	"HelperBot/utils"
	"HelperBot/views"
)

// Sender delivers bot messages to users and channels.
type Sender interface {
	reminder.DirectSender
	schedule.ChannelSender
}

type Bot struct {
	Store     *kv.DB
	Client    *discordgo.Session
	Config    *config.Config
	Scheduler *schedule.Scheduler
	Reminders *reminder.Service
	Recurring *schedule.Recurring
	Limiter   *utils.RateLimiter
	Views     *views.Registry
	Logger    *slog.Logger
}

func NewBot(cfg *config.Config, store *kv.DB) (*Bot, error) {
	client, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create discord session")
	}
	client.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	b := newBot(cfg, store, client, &Messenger{Session: client})
	client.AddHandler(b.OnReady)
	return b, nil
}

func newBot(cfg *config.Config, store *kv.DB, client *discordgo.Session, sender Sender, opts ...schedule.Option) *Bot {
	logger := slog.Default().With("component", "bot")
	sched := schedule.New(opts...)
	return &Bot{
		Store:     store,
		Client:    client,
		Config:    cfg,
		Scheduler: sched,
		Reminders: reminder.NewService(reminder.NewStore(store, cfg.BotName), sched, sender),
		Recurring: schedule.NewRecurring(sched, sender),
		Limiter:   utils.NewRateLimiter(),
		Views:     views.NewRegistry(),
		Logger:    logger,
	}
}

// Run opens the gateway connection and runs the scheduler until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Client.Open(); err != nil {
		return errors.Wrap(err, "failed to open discord session")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Scheduler.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		return b.Client.Close()
	})

	b.Logger.Info("bot is running")
	return g.Wait()
}
