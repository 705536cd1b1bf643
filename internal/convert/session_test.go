// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CreatesEngineOnce(t *testing.T) {
	var calls atomic.Int32
	want := &fakeEngine{out: "x"}
	s := NewSession(func(context.Context) (Engine, error) {
		calls.Add(1)
		return want, nil
	})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Engine(context.Background())
			assert.NoError(t, err)
			assert.Same(t, want, got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestNewSessionWith(t *testing.T) {
	want := &fakeEngine{out: "x"}
	s := NewSessionWith(want)

	got, err := s.Engine(context.Background())
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestSession_FactoryOutlivesCancelledCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSession(func(ctx context.Context) (Engine, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &fakeEngine{out: "x"}, nil
	})

	_, err := s.Engine(ctx)
	require.NoError(t, err)

	_, err = s.Engine(context.Background())
	assert.NoError(t, err)
}
