package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/shared"
)

// State is the position of a [Handshake] in the authorization flow.
type State int

const (
	Idle State = iota
	AwaitingRedirect
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingRedirect:
		return "awaiting redirect"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CodeExchanger builds the authorization URL and trades codes for access credentials.
type CodeExchanger interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (string, error)
}

// HandshakeOptions configures a [Handshake].
type HandshakeOptions struct {
	Callback     *CallbackHandler
	Exchanger    CodeExchanger
	Browser      shared.BrowserOpener // defaults to [shared.OpenBrowser]
	Out          io.Writer            // user-facing messages, defaults to [os.Stdout]
	Timeout      time.Duration        // defaults to five minutes
	ServerErrors <-chan error         // optional listener failures
	Logger       *log.Logger
}

// Handshake drives the authorization-code flow against a running [CallbackServer].
type Handshake struct {
	callback  *CallbackHandler
	exchanger CodeExchanger
	browser   shared.BrowserOpener
	out       io.Writer
	timeout   time.Duration
	errs      <-chan error
	logger    *log.Logger

	mu    sync.RWMutex
	state State
}

// NewHandshake creates an [Idle] handshake.
func NewHandshake(opts HandshakeOptions) *Handshake {
	h := &Handshake{
		callback:  opts.Callback,
		exchanger: opts.Exchanger,
		browser:   opts.Browser,
		out:       opts.Out,
		timeout:   opts.Timeout,
		errs:      opts.ServerErrors,
		logger:    opts.Logger,
	}
	if h.browser == nil {
		h.browser = shared.OpenBrowser
	}
	if h.out == nil {
		h.out = os.Stdout
	}
	if h.timeout <= 0 {
		h.timeout = 5 * time.Minute
	}
	if h.logger == nil {
		h.logger = shared.NewLogger(nil)
	}
	return h
}

// State returns the current state.
func (h *Handshake) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

func (h *Handshake) setState(s State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.logger.Debug("handshake state", "from", h.state, "to", s)
	h.state = s
}

func (h *Handshake) fail(err error) (string, error) {
	h.setState(Failed)
	return "", err
}

// Authorize runs one attempt: arm the callback, open the authorization URL, wait for the redirect, and
// exchange the delivered code exactly once.
//
// It returns [shared.ErrAuthorizationDenied] when the redirect carried no code, [shared.ErrTokenExchange] when
// the exchange failed, [shared.ErrTimeout] when no redirect arrived in time, or the context error. Each call
// starts from scratch, so a failed attempt can simply be retried.
func (h *Handshake) Authorize(ctx context.Context) (string, error) {
	attempt := h.callback.Arm()
	defer h.callback.Disarm(attempt)

	authURL := h.exchanger.AuthURL()
	h.setState(AwaitingRedirect)

	fmt.Fprintln(h.out, "→ Opening browser for Spotify authorization...")
	if err := h.browser(authURL); err != nil {
		h.logger.Warnf("failed to open browser automatically %v", err)
		fmt.Fprintln(h.out, "⚠ Could not open browser automatically.")
		fmt.Fprintf(h.out, "Please open this URL in your browser:\n%s\n\n", authURL)
	}
	fmt.Fprintf(h.out, "→ Waiting for authorization (%v timeout)...\n", h.timeout)

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()

	var result CallbackResult
	select {
	case result = <-attempt.Done():
	case err := <-h.errs:
		return h.fail(fmt.Errorf("callback listener failed: %w", err))
	case <-timer.C:
		return h.fail(fmt.Errorf("%w: no authorization received after %v", shared.ErrTimeout, h.timeout))
	case <-ctx.Done():
		return h.fail(ctx.Err())
	}

	if result.Err != nil {
		return h.fail(result.Err)
	}

	credential, err := h.exchanger.Exchange(ctx, result.Code)
	if err != nil {
		if !errors.Is(err, shared.ErrTokenExchange) {
			err = fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
		}
		return h.fail(err)
	}

	h.setState(Succeeded)
	return credential, nil
}
