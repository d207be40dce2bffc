package bot

import (
	"context"
	"sort"

	"github.com/bwmarrin/discordgo"

	"HelperBot/utils"
)

// ChannelLookup lists the channels of a guild.
type ChannelLookup func(guildID string) ([]*discordgo.Channel, error)

// OnReady reconciles schedules the first time the gateway reports ready.
// Later Ready events (reconnects) leave the scheduler alone.
func (b *Bot) OnReady(s *discordgo.Session, r *discordgo.Ready) {
	b.Logger.Info("connected", "user", r.User.Username, "guilds", len(r.Guilds))
	if !b.Scheduler.MarkReconciled() {
		b.Logger.Debug("schedules already reconciled")
		return
	}
	lookup := func(guildID string) ([]*discordgo.Channel, error) {
		return s.GuildChannels(guildID)
	}
	b.Reconcile(context.Background(), lookup)
}

// Reconcile starts every configured recurring announcement and restores
// stored reminders. Problems with one guild or schedule are logged and
// skipped.
func (b *Bot) Reconcile(ctx context.Context, lookup ChannelLookup) {
	b.Logger.Debug("reconciling schedules")

	guildIDs := make([]string, 0, len(b.Config.Guilds))
	for id := range b.Config.Guilds {
		guildIDs = append(guildIDs, id)
	}
	sort.Strings(guildIDs)

	started := 0
	for _, guildID := range guildIDs {
		g := b.Config.Guilds[guildID]
		if len(g.Recurring) == 0 {
			continue
		}
		channels, err := lookup(guildID)
		if err != nil {
			b.Logger.Error("failed to list guild channels", "guild_id", guildID, "error", err)
			continue
		}
		for _, r := range g.Recurring {
			ch := utils.FindChannel(channels, r.Channel)
			if ch == nil {
				b.Logger.Warn("recurring channel not found", "guild_id", guildID, "channel", r.Channel)
				continue
			}
			if err := b.Recurring.Start(r.Time, ch.ID, r.Message); err != nil {
				b.Logger.Error("failed to start recurring schedule", "guild_id", guildID, "expr", r.Time, "error", err)
				continue
			}
			started++
		}
	}

	res, err := b.Reminders.Restore(ctx)
	if err != nil {
		b.Logger.Error("failed to restore reminders", "error", err)
		return
	}
	b.Logger.Info("schedules reconciled", "recurring", started, "reminders", res.Armed, "expired", res.Expired)
}
