package service

import (
	"context"
	"sync"
	"time"
)

// DefaultCameraMS is the frame window requested from the camera endpoint.
const DefaultCameraMS = 5000

type CameraService struct {
	backend Backend
	render  Renderer
	enabled bool
	ms      int

	mu        sync.Mutex
	lastT     int64
	now       func() time.Time
	newTicker tickerFactory
}

func NewCameraService(backend Backend, render Renderer, enabled bool, ms int) *CameraService {
	if ms <= 0 {
		ms = DefaultCameraMS
	}
	return &CameraService{
		backend:   backend,
		render:    render,
		enabled:   enabled,
		ms:        ms,
		now:       time.Now,
		newTicker: newRealTicker,
	}
}

// Run refreshes the camera URL now and on every tick. Without a camera on
// the panel it returns immediately.
func (s *CameraService) Run(ctx context.Context, every time.Duration) {
	if !s.enabled {
		return
	}
	runEvery(ctx, every, s.newTicker, func(context.Context) { s.Refresh() })
}

// Refresh renders a new cache-busted camera URL and returns it. The t
// parameter strictly increases between calls even if the clock does not.
func (s *CameraService) Refresh() string {
	s.mu.Lock()
	t := s.now().UnixMilli()
	if t <= s.lastT {
		t = s.lastT + 1
	}
	s.lastT = t
	s.mu.Unlock()

	src := s.backend.CameraURL(s.ms, t)
	s.render.SetVideoFeed(src)
	return src
}
