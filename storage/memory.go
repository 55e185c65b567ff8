package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/minus-twelve/docsession/types"
)

// ErrTTLUnsupported is returned by CreateTTLIndex on stores that cannot expire
// records by themselves.
var ErrTTLUnsupported = errors.New("store does not support ttl expiry")

// MemoryBackend keeps collections in process memory. It is meant for tests and single
// process deployments; records do not survive a restart.
type MemoryBackend struct {
	mu          sync.Mutex
	collections map[string]*MemoryStore
	maxSessions int
}

func NewMemoryBackend(maxSessions int) *MemoryBackend {
	return &MemoryBackend{
		collections: make(map[string]*MemoryStore),
		maxSessions: maxSessions,
	}
}

func (b *MemoryBackend) Collection(database, name string) types.Collection {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := database + "." + name
	if s, ok := b.collections[key]; ok {
		return s
	}
	s := NewMemoryStore(b.maxSessions)
	b.collections[key] = s
	return s
}

func (b *MemoryBackend) Close(ctx context.Context) error {
	return nil
}

type MemoryStore struct {
	records      map[string]types.Record
	userSessions map[string]map[string]struct{}
	mutex        sync.RWMutex
	maxSessions  int
}

func NewMemoryStore(maxSessions int) *MemoryStore {
	return &MemoryStore{
		records:      make(map[string]types.Record),
		userSessions: make(map[string]map[string]struct{}),
		maxSessions:  maxSessions,
	}
}

func (s *MemoryStore) FindOne(ctx context.Context, id string) (*types.Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (s *MemoryStore) UpsertOne(ctx context.Context, id string, rec types.Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.records[id]; !exists && s.maxSessions > 0 && len(s.records) >= s.maxSessions {
		s.deleteInternal(s.findOldest())
	}

	s.deleteInternal(id)

	rec.ID = id
	s.records[id] = cloneRecord(rec)
	if rec.UserID != nil {
		userID := *rec.UserID
		if _, exists := s.userSessions[userID]; !exists {
			s.userSessions[userID] = make(map[string]struct{})
		}
		s.userSessions[userID][id] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) DeleteOne(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.deleteInternal(id)
	return nil
}

func (s *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var n int64
	for id, rec := range s.records {
		if rec.LastActivity.Before(cutoff) {
			s.deleteInternal(id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ids, exists := s.userSessions[userID]
	if !exists {
		return 0, nil
	}
	var n int64
	for id := range ids {
		s.deleteInternal(id)
		n++
	}
	return n, nil
}

func (s *MemoryStore) CreateTTLIndex(ctx context.Context, field string, afterSeconds int32) error {
	return ErrTTLUnsupported
}

// Len returns the number of stored records, expired or not.
func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) findOldest() string {
	var oldestID string
	var oldestTime time.Time

	for id, rec := range s.records {
		if oldestID == "" || rec.LastActivity.Before(oldestTime) {
			oldestID = id
			oldestTime = rec.LastActivity
		}
	}
	return oldestID
}

func (s *MemoryStore) deleteInternal(id string) {
	rec, exists := s.records[id]
	if !exists {
		return
	}
	if rec.UserID != nil {
		if ids, ok := s.userSessions[*rec.UserID]; ok {
			delete(ids, id)
			if len(ids) == 0 {
				delete(s.userSessions, *rec.UserID)
			}
		}
	}
	delete(s.records, id)
}

func cloneRecord(rec types.Record) types.Record {
	out := rec
	if rec.Payload != nil {
		out.Payload = append([]byte(nil), rec.Payload...)
	}
	out.UserID = cloneString(rec.UserID)
	out.IPAddress = cloneString(rec.IPAddress)
	out.UserAgent = cloneString(rec.UserAgent)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
