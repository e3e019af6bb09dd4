// Package store holds the per-session analysis state. Every mutation goes
// through a Store method; reads hand out copies.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helmcode/profile-comparator/pkg/model"
)

// Snapshot is a point-in-time copy of the session state.
type Snapshot struct {
	SessionID  string                `json:"session_id" yaml:"session_id"`
	StartedAt  time.Time             `json:"started_at" yaml:"started_at"`
	LastSearch *model.SearchInput    `json:"last_search,omitempty" yaml:"last_search,omitempty"`
	LastResult *model.AnalysisResult `json:"last_result,omitempty" yaml:"last_result,omitempty"`
	IsLoading  bool                  `json:"is_loading" yaml:"is_loading"`
	LastError  string                `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

type Store struct {
	mu sync.RWMutex

	sessionID string
	startedAt time.Time

	lastSearch *model.SearchInput
	lastResult *model.AnalysisResult
	isLoading  bool
	lastError  string
}

// New starts an empty session.
func New() *Store {
	return &Store{
		sessionID: uuid.NewString(),
		startedAt: time.Now(),
	}
}

// RecordResult replaces the last result and clears any error.
func (s *Store) RecordResult(r *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = r.Clone()
	s.lastError = ""
}

// RecordSearch remembers the input so it can be retried, whatever the outcome.
func (s *Store) RecordSearch(in model.SearchInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := in.Clone()
	s.lastSearch = &c
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isLoading = loading
}

func (s *Store) RecordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// Reset empties all four state fields. The session ID is kept.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSearch = nil
	s.lastResult = nil
	s.isLoading = false
	s.lastError = ""
}

func (s *Store) SessionID() string {
	return s.sessionID
}

func (s *Store) LastSearch() (model.SearchInput, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSearch == nil {
		return model.SearchInput{}, false
	}
	return s.lastSearch.Clone(), true
}

func (s *Store) LastResult() *model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult.Clone()
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

func (s *Store) HasResult() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult != nil
}

func (s *Store) IsSingleType() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult.IsSingle()
}

func (s *Store) IsComparisonType() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult.IsComparison()
}

func (s *Store) HasError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError != ""
}

// CanRetry is true when there is a search to repeat and it failed.
func (s *Store) CanRetry() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSearch != nil && s.lastError != ""
}

// SubjectBusiness is the user's own business from whichever result is held.
func (s *Store) SubjectBusiness() *model.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastResult == nil {
		return nil
	}
	return s.lastResult.Subject.Clone()
}

// CompetitorBusiness is nil unless the held result is a comparison.
func (s *Store) CompetitorBusiness() *model.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.lastResult.IsComparison() {
		return nil
	}
	return s.lastResult.Competitor.Clone()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		SessionID:  s.sessionID,
		StartedAt:  s.startedAt,
		LastResult: s.lastResult.Clone(),
		IsLoading:  s.isLoading,
		LastError:  s.lastError,
	}
	if s.lastSearch != nil {
		c := s.lastSearch.Clone()
		snap.LastSearch = &c
	}
	return snap
}
