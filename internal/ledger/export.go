package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/neducation/spadays/internal/model"
)

// ExportState serializes the full ledger aggregate. The document uses the
// same encoding as the persistence gateway, so a backup can be restored
// byte for byte.
func (s *Service) ExportState() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.state)
	if err != nil {
		return nil, fmt.Errorf("encode ledger state: %w", err)
	}
	return data, nil
}

// RestoreState replaces the in-memory aggregate with a previously
// exported document and persists it. Invalid documents leave the current
// state untouched.
func (s *Service) RestoreState(data []byte) error {
	var state model.LedgerState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode ledger state: %w", err)
	}
	state.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &state
	s.persist()
	return nil
}
