// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"sync"
)

// Factory creates the conversion engine.
type Factory func(ctx context.Context) (Engine, error)

// Session owns the process-wide engine handle. The factory runs at most
// once; every later call sees the same engine or the same error.
type Session struct {
	factory Factory

	once sync.Once
	eng  Engine
	err  error
}

// NewSession returns a session that creates its engine with factory on
// first use.
func NewSession(factory Factory) *Session {
	return &Session{factory: factory}
}

// NewSessionWith returns a session around an engine that already exists.
func NewSessionWith(eng Engine) *Session {
	s := &Session{}
	s.once.Do(func() { s.eng = eng })
	return s
}

// Engine returns the memoized engine, creating it on the first call. The
// factory keeps ctx's values but not its cancellation, so a request that
// goes away mid-init does not leave a permanent error behind.
func (s *Session) Engine(ctx context.Context) (Engine, error) {
	s.once.Do(func() {
		s.eng, s.err = s.factory(context.WithoutCancel(ctx))
	})
	return s.eng, s.err
}
