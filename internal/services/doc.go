// Package services defines the [Service] interface for music streaming providers and implements it for Spotify.
//
// # Paginated Fetcher
//
// [FetchAllPages] follows a page's "next" URL until it is absent, attaching the bearer credential to every
// request and concatenating items in fetch order. A [PageExtractor] turns one page body into items and the
// next URL, so the same loop serves playlists and playlist tracks.
//
// Failures abort the whole fetch with [shared.ErrFetchFailed]; nothing is retried. A cursor that points back to
// an already fetched page fails with [shared.ErrCursorLoop] instead of looping.
//
// An optional [rate.Limiter] paces requests (api.requests_per_second). It does not interpret 429 responses.
//
// # Spotify Implementation
//
// [SpotifyService] builds the authorization URL and exchanges codes with [oauth2.Config] using HTTP Basic
// client authentication. Endpoint and scope constants come from [spotifyauth].
//
// # Error Handling
//
//   - [shared.ErrTokenExchange] : token endpoint failed or returned no access token
//   - [shared.ErrFetchFailed] : any request or decode failure during pagination
//   - [shared.ErrNotAuthenticated] : empty credential
package services
