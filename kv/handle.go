package kv

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrClosed is returned by handle operations after Close or Abort.
var ErrClosed = errors.New("kv: handle is closed")

// Handle is a scoped view of one namespace/name pair. It is not safe for
// concurrent use.
type Handle struct {
	ctx       context.Context
	tx        *sql.Tx
	dialect   dialect
	namespace string
	name      string
	done      bool
}

const (
	selectValueQuery = `SELECT value FROM kv_store WHERE namespace = ? AND name = ? AND key = ?`
	selectKeysQuery  = `SELECT key FROM kv_store WHERE namespace = ? AND name = ? ORDER BY key`
	upsertQuery      = `INSERT INTO kv_store (namespace, name, key, value) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, name, key) DO UPDATE SET value = excluded.value`
	deleteQuery = `DELETE FROM kv_store WHERE namespace = ? AND name = ? AND key = ?`
)

func (h *Handle) raw(key string) ([]byte, bool, error) {
	if h.done {
		return nil, false, ErrClosed
	}
	var value string
	err := h.tx.QueryRowContext(h.ctx, h.dialect.rebind(selectValueQuery), h.namespace, h.name, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read %s/%s[%s]", h.namespace, h.name, key)
	}
	return []byte(value), true, nil
}

// Has reports whether key is present.
func (h *Handle) Has(key string) (bool, error) {
	_, ok, err := h.raw(key)
	return ok, err
}

// Get decodes the value stored under key into dst. It reports false, leaving
// dst untouched, when the key is absent.
func (h *Handle) Get(key string, dst any) (bool, error) {
	data, ok, err := h.raw(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, errors.Wrapf(err, "failed to decode %s/%s[%s]", h.namespace, h.name, key)
	}
	return true, nil
}

// Set stores v under key, replacing any previous value.
func (h *Handle) Set(key string, v any) error {
	if h.done {
		return ErrClosed
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s/%s[%s]", h.namespace, h.name, key)
	}
	if _, err := h.tx.ExecContext(h.ctx, h.dialect.rebind(upsertQuery), h.namespace, h.name, key, string(data)); err != nil {
		return errors.Wrapf(err, "failed to write %s/%s[%s]", h.namespace, h.name, key)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (h *Handle) Delete(key string) error {
	if h.done {
		return ErrClosed
	}
	if _, err := h.tx.ExecContext(h.ctx, h.dialect.rebind(deleteQuery), h.namespace, h.name, key); err != nil {
		return errors.Wrapf(err, "failed to delete %s/%s[%s]", h.namespace, h.name, key)
	}
	return nil
}

// Keys lists every key in the handle's namespace/name, sorted.
func (h *Handle) Keys() ([]string, error) {
	if h.done {
		return nil, ErrClosed
	}
	rows, err := h.tx.QueryContext(h.ctx, h.dialect.rebind(selectKeysQuery), h.namespace, h.name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s/%s", h.namespace, h.name)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "failed to scan key")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate keys")
	}
	return keys, nil
}

// Close commits the handle's writes. Closing twice is a no-op.
func (h *Handle) Close() error {
	if h.done {
		return nil
	}
	h.done = true
	if err := h.tx.Commit(); err != nil {
		return errors.Wrapf(err, "failed to commit %s/%s", h.namespace, h.name)
	}
	return nil
}

// Abort discards the handle's writes. Aborting a closed handle is a no-op.
func (h *Handle) Abort() error {
	if h.done {
		return nil
	}
	h.done = true
	return h.tx.Rollback()
}
