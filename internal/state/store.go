package state

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pantopia/console/internal/pantopia"
)

// Lists is one complete refresh of the CRM collections.
type Lists struct {
	Companies []pantopia.Company
	Contacts  []pantopia.Contact
	Projects  []pantopia.Project
	Briefs    []pantopia.Brief
}

func (l Lists) clone() Lists {
	return Lists{
		Companies: slices.Clone(l.Companies),
		Contacts:  slices.Clone(l.Contacts),
		Projects:  slices.Clone(l.Projects),
		Briefs:    slices.Clone(l.Briefs),
	}
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Lists
	HasData             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	// Unauthorized is set once the API rejects the token and cleared by the
	// next successful refresh.
	Unauthorized bool
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2 && !s.Unauthorized
}

// Company looks up a company in the snapshot.
func (s Snapshot) Company(id string) (pantopia.Company, bool) {
	for _, c := range s.Companies {
		if c.ID == id {
			return c, true
		}
	}
	return pantopia.Company{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored lists. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(lists *Lists, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		if errors.Is(err, pantopia.ErrUnauthorized) {
			s.snapshot.Unauthorized = true
		}
		return
	}

	if lists != nil {
		s.snapshot.Lists = lists.clone()
		s.snapshot.HasData = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	s.snapshot.Unauthorized = false
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Lists = s.snapshot.Lists.clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
