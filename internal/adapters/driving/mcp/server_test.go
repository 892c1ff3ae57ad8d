package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil retrieval service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetrievalService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil retrieval service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingRetrievalService)
	})

	t.Run("retrieval only is valid", func(t *testing.T) {
		ports := &Ports{
			Retrieval: &mockRetrievalService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{
			Retrieval:  &mockRetrievalService{},
			Interview:  &mockInterviewService{},
			Evaluation: &mockEvaluationService{},
		}
		err := ports.Validate()
		assert.NoError(t, err)
	})
}

// blockingWatcher runs until its context ends.
type blockingWatcher struct {
	started chan struct{}
	stopped chan struct{}
	err     error
}

func newBlockingWatcher(err error) *blockingWatcher {
	return &blockingWatcher{started: make(chan struct{}), stopped: make(chan struct{}), err: err}
}

func (w *blockingWatcher) Run(ctx context.Context) error {
	close(w.started)
	if w.err != nil {
		close(w.stopped)
		return w.err
	}
	<-ctx.Done()
	close(w.stopped)
	return nil
}

func TestServer_RunHTTP(t *testing.T) {
	t.Run("runs watcher and stops on cancel", func(t *testing.T) {
		w := newBlockingWatcher(nil)
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}}, WithWatcher(w))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- server.RunHTTP(ctx, "127.0.0.1:0") }()

		select {
		case <-w.started:
		case <-time.After(5 * time.Second):
			t.Fatal("watcher was not started")
		}
		cancel()

		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("RunHTTP did not return after cancel")
		}
		select {
		case <-w.stopped:
		default:
			t.Fatal("watcher still running after RunHTTP returned")
		}
	})

	t.Run("watcher failure does not stop the server", func(t *testing.T) {
		w := newBlockingWatcher(errors.New("watch failed"))
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}}, WithWatcher(w))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- server.RunHTTP(ctx, "127.0.0.1:0") }()

		<-w.stopped
		select {
		case err := <-errCh:
			t.Fatalf("RunHTTP returned early: %v", err)
		case <-time.After(100 * time.Millisecond):
		}
		cancel()
		assert.NoError(t, <-errCh)
	})

	t.Run("without watcher", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, server.RunHTTP(ctx, "127.0.0.1:0"))
	})
}

func TestServer_RunHTTPBadAddress(t *testing.T) {
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "127.0.0.1:-1")
	assert.Error(t, err)
}
