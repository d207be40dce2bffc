// Package reminder persists one-shot reminders and delivers them through the
// scheduler, surviving restarts by re-arming whatever is still pending in
// the store.
package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"HelperBot/kv"
)

const (
	// DBName is the store name reminders live under.
	DBName = "schedule"
	docKey = "0"
)

// Record is one pending reminder. Due is always UTC.
type Record struct {
	Destination string    `json:"destination"`
	Due         time.Time `json:"due"`
	Message     string    `json:"message"`
}

// Store keeps every reminder in a single document keyed by reminder id.
// Each call is a whole-document read-modify-write under one handle; two
// overlapping writers can still lose each other's update.
type Store struct {
	db        *kv.DB
	namespace string
}

func NewStore(db *kv.DB, namespace string) *Store {
	return &Store{db: db, namespace: namespace}
}

// Load returns every stored reminder.
func (s *Store) Load(ctx context.Context) (map[string]Record, error) {
	var schedule map[string]Record
	err := s.db.With(ctx, s.namespace, DBName, func(h *kv.Handle) error {
		var err error
		schedule, err = load(h)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load reminders")
	}
	return schedule, nil
}

// Save replaces the stored reminders with schedule.
func (s *Store) Save(ctx context.Context, schedule map[string]Record) error {
	err := s.db.With(ctx, s.namespace, DBName, func(h *kv.Handle) error {
		return save(h, schedule)
	})
	return errors.Wrap(err, "failed to save reminders")
}

// SaveOne stores a new reminder under a fresh id and returns the id.
func (s *Store) SaveOne(ctx context.Context, destination string, due time.Time, message string) (string, error) {
	id := uuid.NewString()
	err := s.db.With(ctx, s.namespace, DBName, func(h *kv.Handle) error {
		schedule, err := load(h)
		if err != nil {
			return err
		}
		schedule[id] = Record{Destination: destination, Due: due.UTC(), Message: message}
		return save(h, schedule)
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to save reminder")
	}
	return id, nil
}

// Delete removes the reminder with id. Unknown ids are ignored.
func (s *Store) Delete(ctx context.Context, id string) error {
	err := s.db.With(ctx, s.namespace, DBName, func(h *kv.Handle) error {
		schedule, err := load(h)
		if err != nil {
			return err
		}
		if _, ok := schedule[id]; !ok {
			return nil
		}
		delete(schedule, id)
		return save(h, schedule)
	})
	return errors.Wrapf(err, "failed to delete reminder %s", id)
}

func load(h *kv.Handle) (map[string]Record, error) {
	schedule := make(map[string]Record)
	if _, err := h.Get(docKey, &schedule); err != nil {
		return nil, err
	}
	if schedule == nil {
		schedule = make(map[string]Record)
	}
	for id, rec := range schedule {
		rec.Due = rec.Due.UTC()
		schedule[id] = rec
	}
	return schedule, nil
}

func save(h *kv.Handle, schedule map[string]Record) error {
	normalised := make(map[string]Record, len(schedule))
	for id, rec := range schedule {
		rec.Due = rec.Due.UTC()
		normalised[id] = rec
	}
	return h.Set(docKey, normalised)
}
