package reminder

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/pkg/errors"

	"HelperBot/schedule"
)

const (
	// DeliveryWindow is how far from its due time a reminder may still be
	// delivered. Outside it the firing is treated as mistimed.
	DeliveryWindow = 5 * time.Minute

	// Prefix is prepended to every reminder message.
	Prefix = "Reminder: "
)

// ErrUnparseable is returned by Create when the time text yields no future
// instant.
var ErrUnparseable = errors.New("unable to parse time string")

// DirectSender delivers a direct message to a user.
type DirectSender interface {
	SendDirect(ctx context.Context, userID, content string) error
}

// Entry is a stored reminder together with its id.
type Entry struct {
	ID string
	Record
}

// Service arms, delivers and cancels reminders. The store is the source of
// truth; scheduler handles only exist for cancellation.
type Service struct {
	store  *Store
	sched  *schedule.Scheduler
	sender DirectSender
	window time.Duration
	logger *slog.Logger
}

func NewService(store *Store, sched *schedule.Scheduler, sender DirectSender) *Service {
	return &Service{
		store:  store,
		sched:  sched,
		sender: sender,
		window: DeliveryWindow,
		logger: slog.Default().With("component", "reminder"),
	}
}

// SetLogger sets a custom logger.
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Store exposes the underlying record store.
func (s *Service) Store() *Store {
	return s.store
}

// Create parses timeText, stores the reminder for userID and arms it.
func (s *Service) Create(ctx context.Context, userID, content, timeText string) (Entry, error) {
	due, ok := ParseTime(timeText, s.sched.Now())
	if !ok {
		return Entry{}, errors.Wrapf(ErrUnparseable, "%q", timeText)
	}

	msg := Prefix + content
	id, err := s.store.SaveOne(ctx, userID, due, msg)
	if err != nil {
		return Entry{}, err
	}

	rec := Record{Destination: userID, Due: due, Message: msg}
	s.Arm(id, rec)
	return Entry{ID: id, Record: rec}, nil
}

// Arm schedules delivery of rec. A reminder that is already due is not armed
// and its record is left in place for the caller to reconcile.
func (s *Service) Arm(id string, rec Record) bool {
	return s.sched.Schedule(id, rec.Due, func(ctx context.Context) {
		s.Deliver(ctx, id, rec)
	})
}

// Deliver sends rec if now is within the delivery window around its due
// time, then deletes the record whether or not it was sent.
func (s *Service) Deliver(ctx context.Context, id string, rec Record) {
	now := s.sched.Now()
	if !now.Before(rec.Due.Add(-s.window)) && !now.After(rec.Due.Add(s.window)) {
		if err := s.sender.SendDirect(ctx, rec.Destination, rec.Message); err != nil {
			s.logger.Error("failed to deliver reminder", "reminder_id", id, "destination", rec.Destination, "error", err)
		}
	} else {
		s.logger.Error("mistimed reminder", "reminder_id", id, "due", rec.Due, "now", now)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete delivered reminder", "reminder_id", id, "error", err)
	}
}

// Cancel disarms the reminder and deletes its record.
func (s *Service) Cancel(ctx context.Context, id string) error {
	s.sched.Cancel(id)
	return s.store.Delete(ctx, id)
}

// RestoreResult counts what Restore did.
type RestoreResult struct {
	Armed   int
	Expired int
}

// Restore re-arms every stored reminder that is still in the future and
// deletes the rest without delivering them.
func (s *Service) Restore(ctx context.Context) (RestoreResult, error) {
	var res RestoreResult
	schedule, err := s.store.Load(ctx)
	if err != nil {
		return res, err
	}

	now := s.sched.Now()
	for id, rec := range schedule {
		if rec.Due.After(now) && s.Arm(id, rec) {
			res.Armed++
			continue
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return res, err
		}
		s.logger.Info("dropped expired reminder", "reminder_id", id, "due", rec.Due)
		res.Expired++
	}
	return res, nil
}

// All returns every stored reminder, soonest first.
func (s *Service) All(ctx context.Context) ([]Entry, error) {
	schedule, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(schedule))
	for id, rec := range schedule {
		entries = append(entries, Entry{ID: id, Record: rec})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Due.Equal(entries[j].Due) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Due.Before(entries[j].Due)
	})
	return entries, nil
}

// Pending returns userID's reminders, soonest first.
func (s *Service) Pending(ctx context.Context, userID string) ([]Entry, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	var mine []Entry
	for _, e := range all {
		if e.Destination == userID {
			mine = append(mine, e)
		}
	}
	return mine, nil
}

// Prune deletes records whose due time has passed. Reminders that were
// already due when armed stay in the store until something prunes them.
func (s *Service) Prune(ctx context.Context) (int, error) {
	schedule, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	now := s.sched.Now()
	pruned := 0
	for id, rec := range schedule {
		if rec.Due.After(now) {
			continue
		}
		s.sched.Cancel(id)
		delete(schedule, id)
		pruned++
	}
	if pruned == 0 {
		return 0, nil
	}
	return pruned, s.store.Save(ctx, schedule)
}
