// Package store implements the persistence gateway: the ledger aggregate
// round-trips as a single JSON document in one SQLite row, keyed by the
// fixed application key.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/neducation/spadays/internal/model"
)

// StateKey is the one key the ledger blob lives under. It carries over
// the storage key the original PWA used in localStorage.
const StateKey = "spa-app-data"

type LedgerStore struct {
	db  *sql.DB
	key string
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db, key: StateKey}
}

// Load reads the persisted ledger state. Returns (nil, nil) when nothing
// has been saved yet; the caller starts from the zero-value state.
func (s *LedgerStore) Load() (*model.LedgerState, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM ledger_state WHERE key = ?`, s.key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger state: %w", err)
	}

	var state model.LedgerState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("decode ledger state: %w", err)
	}
	state.Normalize()
	return &state, nil
}

// Save upserts the full state document.
func (s *LedgerStore) Save(state *model.LedgerState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode ledger state: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO ledger_state (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		s.key, string(data),
	)
	if err != nil {
		return fmt.Errorf("save ledger state: %w", err)
	}
	return nil
}
