package feed

import (
	"context"
	"sync"

	"activitycheckin/internal/domain"
)

// Memory is a single-process RegistrationFeed. A subscriber whose buffer is full
// misses the signal; the next snapshot it takes still reflects the write.
type Memory struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*memorySubscription
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[int]*memorySubscription)}
}

func (m *Memory) Publish(_ context.Context, change domain.RegistrationChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs[change.VisitorID] {
		select {
		case s.out <- change:
		default:
		}
	}
	return nil
}

func (m *Memory) Subscribe(_ context.Context, visitorID string) (domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	s := &memorySubscription{feed: m, visitorID: visitorID, id: m.nextID, out: make(chan domain.RegistrationChange, bufferSize)}
	if m.subs[visitorID] == nil {
		m.subs[visitorID] = make(map[int]*memorySubscription)
	}
	m.subs[visitorID][s.id] = s
	return s, nil
}

func (m *Memory) remove(s *memorySubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subs[s.visitorID], s.id)
	if len(m.subs[s.visitorID]) == 0 {
		delete(m.subs, s.visitorID)
	}
	close(s.out)
}

type memorySubscription struct {
	once      sync.Once
	feed      *Memory
	visitorID string
	id        int
	out       chan domain.RegistrationChange
}

func (s *memorySubscription) Changes() <-chan domain.RegistrationChange {
	return s.out
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() { s.feed.remove(s) })
	return nil
}
