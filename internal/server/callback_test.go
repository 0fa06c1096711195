package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCallback(h *CallbackHandler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestCallbackHandler(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("code resolves the armed attempt", func(t *testing.T) {
		h := NewCallbackHandler(logger)
		attempt := h.Arm()

		rec := serveCallback(h, "/callback?code=abc")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Equal(t, string(backToCLIPage), rec.Body.String())

		select {
		case r := <-attempt.Done():
			assert.Equal(t, "abc", r.Code)
			assert.NoError(t, r.Err)
		default:
			t.Fatal("expected attempt to be resolved")
		}
	})

	t.Run("missing code is a denial", func(t *testing.T) {
		h := NewCallbackHandler(logger)
		attempt := h.Arm()

		rec := serveCallback(h, "/callback?error=access_denied")
		assert.Equal(t, http.StatusOK, rec.Code)

		r := <-attempt.Done()
		require.ErrorIs(t, r.Err, shared.ErrAuthorizationDenied)
		assert.Contains(t, r.Err.Error(), "access_denied")
		assert.Empty(t, r.Code)
	})

	t.Run("duplicate callbacks are ignored", func(t *testing.T) {
		h := NewCallbackHandler(logger)
		attempt := h.Arm()

		serveCallback(h, "/callback?code=first")
		rec := serveCallback(h, "/callback?code=second")
		assert.Equal(t, http.StatusOK, rec.Code)

		r := <-attempt.Done()
		assert.Equal(t, "first", r.Code)
		select {
		case extra := <-attempt.Done():
			t.Fatalf("unexpected second result %+v", extra)
		default:
		}
	})

	t.Run("callback while disarmed gets the page", func(t *testing.T) {
		h := NewCallbackHandler(logger)
		rec := serveCallback(h, "/callback?code=stray")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, string(backToCLIPage), rec.Body.String())
	})

	t.Run("re-arming starts a fresh attempt", func(t *testing.T) {
		h := NewCallbackHandler(logger)
		first := h.Arm()
		serveCallback(h, "/callback")
		<-first.Done()

		second := h.Arm()
		serveCallback(h, "/callback?code=retry")
		assert.Equal(t, "retry", (<-second.Done()).Code)
	})

	t.Run("Disarm ignores stale attempts", func(t *testing.T) {
		h := NewCallbackHandler(logger)
		stale := h.Arm()
		current := h.Arm()
		h.Disarm(stale)

		serveCallback(h, "/callback?code=live")
		assert.Equal(t, "live", (<-current.Done()).Code)
	})
}

func TestCallbackServer(t *testing.T) {
	logger := log.New(io.Discard)
	callback := NewCallbackHandler(logger)
	srv := NewCallbackServer("127.0.0.1:0", NewCallbackRouter(callback, "", logger), logger)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { _ = srv.Close() })

	attempt := callback.Arm()
	resp, err := http.Get("http://" + srv.Addr() + "/callback?code=over-the-wire")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "over-the-wire", (<-attempt.Done()).Code)

	t.Run("HEAD does not resolve the armed attempt", func(t *testing.T) {
		attempt := callback.Arm()
		defer callback.Disarm(attempt)

		head, err := http.Head("http://" + srv.Addr() + "/callback")
		require.NoError(t, err)
		head.Body.Close()
		assert.Equal(t, http.StatusOK, head.StatusCode)

		select {
		case r := <-attempt.Done():
			t.Fatalf("HEAD resolved the attempt: %+v", r)
		default:
		}

		resp, err := http.Get("http://" + srv.Addr() + "/callback?code=after-head")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "after-head", (<-attempt.Done()).Code)
	})

	t.Run("second bind on the same address fails", func(t *testing.T) {
		other := NewCallbackServer(srv.Addr(), http.NotFoundHandler(), logger)
		assert.Error(t, other.Start())
	})

	t.Run("Close before Start", func(t *testing.T) {
		assert.NoError(t, NewCallbackServer("127.0.0.1:0", http.NotFoundHandler(), logger).Close())
	})
}
