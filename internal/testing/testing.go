// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/plx/internal/models"
)

// ErrScriptExhausted is returned by scripted doubles that run out of answers.
var ErrScriptExhausted = errors.New("script exhausted")

// FakeService is a test double for [services.Service] that records every call.
type FakeService struct {
	mu sync.Mutex

	URL         string
	Token       string
	ExchangeErr error
	PlaylistSet []models.Playlist
	TrackSets   map[string][]models.Track
	FetchErr    error

	ExchangedCodes []string
	PlaylistCalls  int
	TrackCalls     int
}

func (f *FakeService) AuthURL() string { return f.URL }

func (f *FakeService) Exchange(ctx context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ExchangedCodes = append(f.ExchangedCodes, code)
	if f.ExchangeErr != nil {
		return "", f.ExchangeErr
	}
	return f.Token, nil
}

func (f *FakeService) Playlists(ctx context.Context, credential string) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PlaylistCalls++
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return f.PlaylistSet, nil
}

func (f *FakeService) Tracks(ctx context.Context, credential string, playlist models.Playlist) ([]models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TrackCalls++
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return f.TrackSets[playlist.ID], nil
}

func (f *FakeService) Name() string { return "fake" }

// NetworkCalls returns the number of exchange and fetch calls made so far.
func (f *FakeService) NetworkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ExchangedCodes) + f.PlaylistCalls + f.TrackCalls
}

// ScriptedPrompter answers Confirm and Select prompts from fixed scripts, in order.
//
// Select answers are option labels; a label missing from the offered options is an error.
type ScriptedPrompter struct {
	Confirms   []bool
	Selections []string
	Err        error

	Titles  []string
	Offered [][]string
}

func (p *ScriptedPrompter) Confirm(ctx context.Context, title string) (bool, error) {
	p.Titles = append(p.Titles, title)
	if p.Err != nil {
		return false, p.Err
	}
	if len(p.Confirms) == 0 {
		return false, fmt.Errorf("%w: confirm %q", ErrScriptExhausted, title)
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

func (p *ScriptedPrompter) Select(ctx context.Context, title string, options []string) (string, error) {
	p.Titles = append(p.Titles, title)
	p.Offered = append(p.Offered, options)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.Selections) == 0 {
		return "", fmt.Errorf("%w: select %q", ErrScriptExhausted, title)
	}
	answer := p.Selections[0]
	p.Selections = p.Selections[1:]
	for _, o := range options {
		if o == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("option %q not offered for %q", answer, title)
}

// RecordingRenderer keeps everything it was asked to display.
type RecordingRenderer struct {
	Messages []string
	Rendered []models.PlaylistExport
}

func (r *RecordingRenderer) Message(msg string) {
	r.Messages = append(r.Messages, msg)
}

func (r *RecordingRenderer) Tracks(export *models.PlaylistExport) {
	r.Rendered = append(r.Rendered, *export)
}

// RecordingExporter records exports and returns a fixed path or error.
type RecordingExporter struct {
	Path     string
	Err      error
	Exported []models.PlaylistExport
}

func (e *RecordingExporter) Export(ctx context.Context, export *models.PlaylistExport) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	e.Exported = append(e.Exported, *export)
	return e.Path, nil
}

// AuthResult is one scripted outcome of [ScriptedAuthorizer].
type AuthResult struct {
	Credential string
	Err        error
}

// ScriptedAuthorizer returns its results in order, one per Authorize call.
type ScriptedAuthorizer struct {
	Results []AuthResult
	Calls   int
}

func (a *ScriptedAuthorizer) Authorize(ctx context.Context) (string, error) {
	a.Calls++
	if len(a.Results) == 0 {
		return "", ErrScriptExhausted
	}
	r := a.Results[0]
	a.Results = a.Results[1:]
	return r.Credential, r.Err
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
