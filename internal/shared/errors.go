package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization errors
	ErrAuthorizationDenied = fmt.Errorf("authorization denied")
	ErrTokenExchange       = fmt.Errorf("token exchange failed")
	ErrNotAuthenticated    = fmt.Errorf("not authenticated")
	ErrTimeout             = fmt.Errorf("operation timed out")

	// API errors
	ErrFetchFailed      = fmt.Errorf("fetch failed")
	ErrCursorLoop       = fmt.Errorf("pagination cursor repeated")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")

	// Export errors
	ErrExportFailed = fmt.Errorf("export failed")

	// ErrUserAbort signals that the user chose to quit. Callers treat it as a clean exit.
	ErrUserAbort = fmt.Errorf("aborted by user")
)
