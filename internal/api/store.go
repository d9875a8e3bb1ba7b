package api

import "sync"

// InspectStore keeps recent inspection summaries so clients can fetch them
// again by id. The oldest entries are evicted once limit is reached.
type InspectStore struct {
	mu    sync.Mutex
	limit int
	order []string
	items map[string]InspectResponse
}

// DefaultStoreLimit bounds an InspectStore created with a non-positive limit.
const DefaultStoreLimit = 256

func NewInspectStore(limit int) *InspectStore {
	if limit <= 0 {
		limit = DefaultStoreLimit
	}
	return &InspectStore{
		limit: limit,
		items: make(map[string]InspectResponse),
	}
}

func (s *InspectStore) Put(resp InspectResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[resp.ID]; !ok {
		s.order = append(s.order, resp.ID)
	}
	s.items[resp.ID] = resp
	for len(s.order) > s.limit {
		delete(s.items, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *InspectStore) Get(id string) (InspectResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.items[id]
	return resp, ok
}

func (s *InspectStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *InspectStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
