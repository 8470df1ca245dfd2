package model

import (
	"encoding/json"
	"sort"
)

// ServiceSet tracks the distinct service ids used during a tracked period.
// In memory it is a real set; it serializes as a sorted JSON array so the
// persisted form is stable and round-trips losslessly.
type ServiceSet map[string]struct{}

// NewServiceSet returns an empty set.
func NewServiceSet() ServiceSet {
	return make(ServiceSet)
}

// Add inserts the given ids. Duplicates are no-ops.
func (s ServiceSet) Add(ids ...string) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Contains reports whether id is in the set.
func (s ServiceSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of distinct ids.
func (s ServiceSet) Len() int {
	return len(s)
}

// IDs returns the members in sorted order.
func (s ServiceSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (s ServiceSet) Clone() ServiceSet {
	out := make(ServiceSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

func (s ServiceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *ServiceSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	set := make(ServiceSet, len(ids))
	set.Add(ids...)
	*s = set
	return nil
}
