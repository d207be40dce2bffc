package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"HelperBot/kv"
	"HelperBot/reminder"
	"HelperBot/schedule"
	"HelperBot/timeutil"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Inspect and clean up stored reminders",
}

var remindersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reminders, soonest first",
	Args:  cobra.NoArgs,
	RunE:  runRemindersList,
}

var remindersPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete reminders whose due time has already passed",
	Args:  cobra.NoArgs,
	RunE:  runRemindersPrune,
}

func init() {
	remindersCmd.AddCommand(remindersListCmd)
	remindersCmd.AddCommand(remindersPruneCmd)
}

// openReminders opens the store without a Discord session. The service can
// list and prune but never delivers.
func openReminders(cmd *cobra.Command) (*reminder.Service, func() error, error) {
	cfg, err := setup()
	if err != nil {
		return nil, nil, err
	}
	db, err := kv.Open(cmd.Context(), cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	svc := reminder.NewService(reminder.NewStore(db, cfg.BotName), schedule.New(), nil)
	return svc, db.Close, nil
}

func runRemindersList(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openReminders(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := svc.All(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No reminders stored.")
		return nil
	}

	now := time.Now().UTC()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSER\tDUE (UTC)\tWHEN\tMESSAGE")
	for _, e := range entries {
		when := "overdue"
		if e.Due.After(now) {
			when = timeutil.Until(e.Due, true)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Destination, e.Due.Format("2006-01-02 15:04:05"), when,
			strings.TrimPrefix(e.Message, reminder.Prefix))
	}
	return w.Flush()
}

func runRemindersPrune(cmd *cobra.Command, args []string) error {
	svc, closeDB, err := openReminders(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	pruned, err := svc.Prune(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d overdue reminder(s).\n", pruned)
	return nil
}
