package server

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/shared"
)

//go:embed back_to_cli.html
var backToCLIPage []byte

// CallbackResult is what one redirect delivered: a code, or the reason there was none.
type CallbackResult struct {
	Code string
	Err  error
}

// Attempt is a single-slot completion signal for one authorization attempt.
type Attempt struct {
	done chan CallbackResult
	once sync.Once
}

func newAttempt() *Attempt {
	return &Attempt{done: make(chan CallbackResult, 1)}
}

// Done receives exactly one result.
func (a *Attempt) Done() <-chan CallbackResult {
	return a.done
}

// resolve delivers r if the attempt is still open and reports whether it did.
func (a *Attempt) resolve(r CallbackResult) bool {
	resolved := false
	a.once.Do(func() {
		a.done <- r
		resolved = true
	})
	return resolved
}

// CallbackHandler serves the OAuth redirect. Only the first callback of an armed attempt is delivered; every caller
// gets the same static page.
type CallbackHandler struct {
	mu      sync.Mutex
	current *Attempt
	logger  *log.Logger
}

// NewCallbackHandler creates a disarmed [CallbackHandler].
func NewCallbackHandler(logger *log.Logger) *CallbackHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CallbackHandler{logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"GET /callback"}
}

// Arm replaces any previous attempt with a fresh one.
func (h *CallbackHandler) Arm() *Attempt {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = newAttempt()
	return h.current
}

// Disarm stops delivering callbacks to a, if it is still the current attempt.
func (h *CallbackHandler) Disarm(a *Attempt) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == a {
		h.current = nil
	}
}

// ServeHTTP handles the OAuth callback request.
//
// A non-empty code resolves the attempt with the code. Anything else resolves it with
// [shared.ErrAuthorizationDenied], carrying the error query parameter when present. Only GET requests
// resolve an attempt; the mux also routes HEAD here.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if r.Method != http.MethodGet {
		h.logger.Debug("ignoring non-GET callback", "method", r.Method)
		w.WriteHeader(http.StatusOK)
		return
	}

	q := r.URL.Query()

	result := CallbackResult{Code: q.Get("code")}
	if result.Code == "" {
		reason := q.Get("error")
		if reason == "" {
			reason = "no authorization code in redirect"
		}
		result.Err = fmt.Errorf("%w: %s", shared.ErrAuthorizationDenied, reason)
	}

	h.mu.Lock()
	attempt := h.current
	h.mu.Unlock()

	switch {
	case attempt == nil:
		h.logger.Warn("ignoring callback, no authorization in progress")
	case !attempt.resolve(result):
		h.logger.Warn("ignoring duplicate callback")
	default:
		h.logger.Debug("callback received", "has_code", result.Code != "")
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(backToCLIPage)
}
