package servers

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClosable struct {
	closed atomic.Bool
}

func (f *fakeClosable) Close() { f.closed.Store(true) }

func TestBaseServer(t *testing.T) {
	t.Parallel()

	closable := &fakeClosable{}
	server := NewBaseServer("base-server", closable)

	done := make(chan error, 1)
	go func() { done <- server.Run(context.Background()) }()

	require.NoError(t, server.Stop(context.Background()))
	require.NoError(t, server.Stop(context.Background()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("base server did not stop")
	}

	assert.True(t, closable.closed.Load())
}

func TestBaseServer_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	server := NewBaseServer("base-server")

	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("base server ignored context cancellation")
	}
}

func TestHttpServer_StopBeforeServe(t *testing.T) {
	t.Parallel()

	internal := NewServer("127.0.0.1", "0", http.NewServeMux())
	server := NewHttpServer("rest-server", internal)

	require.NoError(t, server.Stop(context.Background()))
	require.NoError(t, server.Run(context.Background()))
}

func TestHttpServer_ListenFailure(t *testing.T) {
	t.Parallel()

	internal := NewServer("127.0.0.1", "not-a-port", http.NewServeMux())
	errChan := make(chan error, 1)

	_, stopFn, err := BuildHttpServer(context.Background(), "rest-server", internal, errChan)
	require.NoError(t, err)

	defer stopFn(context.Background(), time.Second)

	select {
	case runErr := <-errChan:
		require.Error(t, runErr)
		assert.Contains(t, runErr.Error(), "rest-server")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a startup error")
	}
}

func TestServerErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	assert.ErrorIs(t, ErrServerFailedToStart("rest-server", cause), cause)
	assert.ErrorIs(t, ErrServerFailedToStop("rest-server", cause), cause)
}
