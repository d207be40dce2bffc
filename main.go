package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"HelperBot/bot"
	"HelperBot/commands"
	_ "HelperBot/commands/help"
	_ "HelperBot/commands/reminders"
	_ "HelperBot/commands/roles"
	"HelperBot/config"
	"HelperBot/kv"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "helperbot",
	Short: "Discord helper bot with reminders, recurring announcements and self-assignable roles",
	Long: `Runs the bot until interrupted. Settings come from the environment
(DISCORD_TOKEN, DATABASE_DRIVER, DATABASE_URL, GUILD_ID, LOG_LEVEL, BOT_NAME)
and per-guild options from the YAML config file.`,
	SilenceUsage: true,
	RunE:         runBot,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "guild config file (default $CONFIG_PATH or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(remindersCmd)
}

// setup loads the environment and config and installs the default logger.
func setup() (*config.Config, error) {
	if err := config.LoadEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	return cfg, nil
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return errors.New("DISCORD_TOKEN is not set")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kv.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	b, err := bot.NewBot(cfg, store)
	if err != nil {
		return err
	}
	b.Client.AddHandler(commands.HandleInteraction(b))
	b.Client.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		commands.RegisterAllSlashCommands(s, cfg.GuildID)
	})

	slog.Info("starting bot", "driver", cfg.DatabaseDriver, "guilds", len(cfg.Guilds))
	return b.Run(ctx)
}
