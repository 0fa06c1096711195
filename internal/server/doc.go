// Package server receives the OAuth redirect on a loopback listener and runs the authorization handshake.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] registers method-qualified
// [http.ServeMux] patterns, so the mux itself rejects other methods. [Middleware] added first runs first.
//
// # Callback Handler
//
// [CallbackHandler] serves GET /callback. Each authorization attempt arms a fresh single-slot [Attempt]; the first
// redirect resolves it with the code (or with [shared.ErrAuthorizationDenied] when there is none) and every
// redirect, including duplicates, gets the same static "return to the terminal" page.
//
// # Handshake
//
// [Handshake] moves Idle → AwaitingRedirect → Succeeded | Failed. It opens the authorization URL in the browser
// (printing it when that fails), waits for the redirect, a timeout or context cancellation, then performs exactly
// one token exchange. [CallbackServer] binds once for the life of the process; retries reuse it.
package server
