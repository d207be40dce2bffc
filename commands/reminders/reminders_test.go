package reminders

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HelperBot/bot"
	"HelperBot/kv"
	"HelperBot/reminder"
	"HelperBot/schedule"
	"HelperBot/views"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func entry(id string, in time.Duration, msg string) reminder.Entry {
	return reminder.Entry{ID: id, Record: reminder.Record{
		Destination: "user-1",
		Due:         now.Add(in),
		Message:     reminder.Prefix + msg,
	}}
}

func TestSetMessage(t *testing.T) {
	got := SetMessage(entry("a", 5*time.Minute, "drink water"), now)
	assert.Equal(t, `I'll DM you "Reminder: drink water" in 5 minutes.`, got)
}

func TestListMessage(t *testing.T) {
	got := ListMessage([]reminder.Entry{
		entry("a", 45*time.Second, "stretch"),
		entry("b", 2*time.Hour+30*time.Minute, "call mum"),
	}, now)
	assert.Equal(t, "45 seconds:\n> stretch\n2 hours, 30 minutes:\n> call mum", got)
}

func TestListMessage_Empty(t *testing.T) {
	assert.Equal(t, NoRemindersMessage, ListMessage(nil, now))
	assert.Equal(t, "No reminders set. You can make new ones with `/remind set`.", NoRemindersMessage)
}

func TestDeleteView_Transitions(t *testing.T) {
	v := NewDeleteView()
	assert.Equal(t, Prompting, v.State())

	assert.False(t, v.Select([]string{"a"}), "nothing to select before opening")
	_, ok := v.Apply()
	assert.False(t, ok, "cannot apply before opening")

	require.True(t, v.Open([]reminder.Entry{entry("a", time.Hour, "one"), entry("b", 2*time.Hour, "two")}))
	assert.Equal(t, Selecting, v.State())
	assert.False(t, v.Open([]reminder.Entry{entry("c", time.Hour, "three")}), "already open")

	require.True(t, v.Select([]string{"b", "not-offered"}))
	ids, ok := v.Apply()
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, ids)
	assert.Equal(t, Applied, v.State())

	_, ok = v.Apply()
	assert.False(t, ok, "applies once")
	assert.Nil(t, v.Components("x"))
}

func TestDeleteView_OpenWithoutEntries(t *testing.T) {
	v := NewDeleteView()
	assert.False(t, v.Open(nil))
	assert.Equal(t, Prompting, v.State())
}

func TestDeleteView_ApplyWithoutSelection(t *testing.T) {
	v := NewDeleteView()
	require.True(t, v.Open([]reminder.Entry{entry("a", time.Hour, "one")}))
	ids, ok := v.Apply()
	require.True(t, ok)
	assert.Empty(t, ids)
}

func TestDeleteView_SelectReplacesPreviousChoice(t *testing.T) {
	v := NewDeleteView()
	require.True(t, v.Open([]reminder.Entry{entry("a", time.Hour, "one"), entry("b", time.Hour, "two")}))
	v.Select([]string{"a", "b"})
	v.Select([]string{"a"})
	ids, _ := v.Apply()
	assert.Equal(t, []string{"a"}, ids)
}

func TestDeleteView_PromptingComponents(t *testing.T) {
	rows := NewDeleteView().Components("v1")
	require.Len(t, rows, 1)
	row := rows[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 1)
	btn := row.Components[0].(discordgo.Button)
	assert.Equal(t, "Delete some reminders?", btn.Label)
	assert.Equal(t, discordgo.SecondaryButton, btn.Style)
	assert.Equal(t, "remind-delete:v1:open", btn.CustomID)
}

func TestDeleteView_SelectingComponents(t *testing.T) {
	v := NewDeleteView()
	long := strings.Repeat("x", 150)
	require.True(t, v.Open([]reminder.Entry{entry("a", time.Hour, "one"), entry("b", time.Hour, long)}))

	rows := v.Components("v1")
	require.Len(t, rows, 2)

	menu := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Equal(t, discordgo.StringSelectMenu, menu.MenuType)
	assert.Equal(t, "remind-delete:v1:select", menu.CustomID)
	assert.Equal(t, 2, menu.MaxValues)
	require.Len(t, menu.Options, 2)
	assert.Equal(t, "one", menu.Options[0].Label)
	assert.Equal(t, "a", menu.Options[0].Value)
	assert.Len(t, []rune(menu.Options[1].Label), maxLabelLength)

	btn := rows[1].(discordgo.ActionsRow).Components[0].(discordgo.Button)
	assert.Equal(t, "Delete", btn.Label)
	assert.Equal(t, discordgo.DangerButton, btn.Style)
	assert.Equal(t, "remind-delete:v1:apply", btn.CustomID)
}

func TestDeleteView_CapsOptions(t *testing.T) {
	var entries []reminder.Entry
	for n := 0; n < 30; n++ {
		entries = append(entries, entry(string(rune('a'+n)), time.Duration(n+1)*time.Hour, "r"))
	}
	v := NewDeleteView()
	require.True(t, v.Open(entries))
	menu := v.Components("v")[0].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu)
	assert.Len(t, menu.Options, maxOptions)
}

func newTestBot(t *testing.T) (*bot.Bot, *kv.DB) {
	t.Helper()
	db, err := kv.Open(context.Background(), kv.DriverSQLite, filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sched := schedule.New(schedule.WithClock(func() time.Time { return now }))
	return &bot.Bot{
		Scheduler: sched,
		Reminders: reminder.NewService(reminder.NewStore(db, "testbot"), sched, nil),
		Views:     views.NewRegistry(),
		Logger:    slog.Default(),
	}, db
}

func TestPress_ApplyCancelsSelectedAndRedraws(t *testing.T) {
	b, _ := newTestBot(t)
	ctx := context.Background()

	keep, err := b.Reminders.Create(ctx, "user-1", "keep", "in 2 hours")
	require.NoError(t, err)
	drop, err := b.Reminders.Create(ctx, "user-1", "drop", "in 1 hour")
	require.NoError(t, err)
	id := b.Views.Add(Kind, "user-1", NewDeleteView())

	render, err := Press(ctx, b, id, ActionOpen, nil)
	require.NoError(t, err)
	assert.False(t, render.Acknowledge)
	assert.Contains(t, render.Content, "drop")
	require.Len(t, render.Components, 2)

	render, err = Press(ctx, b, id, ActionSelect, []string{drop.ID})
	require.NoError(t, err)
	assert.True(t, render.Acknowledge)

	render, err = Press(ctx, b, id, ActionApply, nil)
	require.NoError(t, err)
	assert.NotContains(t, render.Content, "drop")
	assert.Contains(t, render.Content, "keep")
	require.Len(t, render.Components, 1, "a fresh prompt replaces the spent view")

	assert.False(t, b.Scheduler.Pending(drop.ID))
	assert.True(t, b.Scheduler.Pending(keep.ID))
	stored, err := b.Reminders.Store().Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, stored, drop.ID)
	assert.Contains(t, stored, keep.ID)

	fresh, _, ok := views.Lookup[*DeleteView](b.Views, id)
	require.True(t, ok)
	assert.Equal(t, Prompting, fresh.State())
}

func TestPress_ApplyLastReminderClosesView(t *testing.T) {
	b, _ := newTestBot(t)
	ctx := context.Background()

	only, err := b.Reminders.Create(ctx, "user-1", "only", "in 1 hour")
	require.NoError(t, err)
	id := b.Views.Add(Kind, "user-1", NewDeleteView())

	_, err = Press(ctx, b, id, ActionOpen, nil)
	require.NoError(t, err)
	_, err = Press(ctx, b, id, ActionSelect, []string{only.ID})
	require.NoError(t, err)
	render, err := Press(ctx, b, id, ActionApply, nil)
	require.NoError(t, err)

	assert.Equal(t, NoRemindersMessage, render.Content)
	assert.Empty(t, render.Components)
	_, _, ok := b.Views.Get(id)
	assert.False(t, ok)
}

func TestPress_ApplyWithoutSelectionKeepsEverything(t *testing.T) {
	b, _ := newTestBot(t)
	ctx := context.Background()

	e, err := b.Reminders.Create(ctx, "user-1", "stay", "in 1 hour")
	require.NoError(t, err)
	id := b.Views.Add(Kind, "user-1", NewDeleteView())

	_, err = Press(ctx, b, id, ActionOpen, nil)
	require.NoError(t, err)
	render, err := Press(ctx, b, id, ActionApply, nil)
	require.NoError(t, err)

	assert.Contains(t, render.Content, "stay")
	assert.True(t, b.Scheduler.Pending(e.ID))
}

func TestPress_UnknownViewIsAcknowledged(t *testing.T) {
	b, _ := newTestBot(t)

	render, err := Press(context.Background(), b, "missing", ActionApply, nil)
	require.NoError(t, err)
	assert.True(t, render.Acknowledge)
}

func TestPress_StoreFailureIsReported(t *testing.T) {
	b, db := newTestBot(t)
	id := b.Views.Add(Kind, "user-1", NewDeleteView())
	require.NoError(t, db.Close())

	_, err := Press(context.Background(), b, id, ActionOpen, nil)
	require.Error(t, err)
}
