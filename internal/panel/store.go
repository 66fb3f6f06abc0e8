package panel

import (
	"sync"
	"time"

	"garden_panel/internal/models"
)

// Store is the rendered panel. Services write into it through the setter
// methods; the HTTP API, websocket stream and TUI read snapshots or subscribe.
type Store struct {
	mu    sync.RWMutex
	state models.PanelState
	subs  map[int]chan models.PanelState
	next  int
	now   func() time.Time
}

// NewStore returns an empty panel.
func NewStore() *Store {
	return &Store{
		subs: make(map[int]chan models.PanelState),
		now:  time.Now,
	}
}

// Snapshot returns a copy of the current panel state.
func (s *Store) Snapshot() models.PanelState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Subscribe returns a channel that receives the latest state after every
// change, and a cancel func. Slow subscribers only ever see the newest state.
func (s *Store) Subscribe() (<-chan models.PanelState, func()) {
	ch := make(chan models.PanelState, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) SetVideoFeed(src string) {
	s.update(func(st *models.PanelState) { st.VideoFeed = src })
}

func (s *Store) SetStatus(raw string) {
	s.update(func(st *models.PanelState) { st.Status = raw })
}

func (s *Store) SetJobResult(msg string) {
	s.update(func(st *models.PanelState) { st.JobResult = msg })
}

func (s *Store) SetFlow(raw string) {
	s.update(func(st *models.PanelState) { st.Flow = raw })
}

func (s *Store) SetWatermark(t time.Time) {
	s.update(func(st *models.PanelState) {
		wm := t.UTC()
		st.Watermark = &wm
	})
}

func (s *Store) SetSimulation(hz float64, running bool) {
	s.update(func(st *models.PanelState) {
		st.SimulationHz = hz
		st.Simulating = running
	})
}

func (s *Store) update(fn func(st *models.PanelState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	s.state.UpdatedAt = s.now().UTC()

	snap := copyState(s.state)
	for _, ch := range s.subs {
		// replace a stale pending state with the new one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func copyState(st models.PanelState) models.PanelState {
	if st.Watermark != nil {
		wm := *st.Watermark
		st.Watermark = &wm
	}
	return st
}
