// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/samber/lo"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyPlaylistsURL = "https://api.spotify.com/v1/me/playlists?limit=50"
	defaultRedirectURI  = "http://localhost:8888/callback"
)

// DefaultScopes are the scopes requested during authorization.
var DefaultScopes = []string{
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Page is one page of a Spotify paging object.
type Page[T any] struct {
	Items    []T     `json:"items"`
	Total    int     `json:"total"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// NextURL returns the next page URL, or "" on the last page.
func (p Page[T]) NextURL() string {
	if p.Next == nil {
		return ""
	}
	return *p.Next
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []SpotifyArtist   `json:"artists"`
	Album        SpotifyAlbum      `json:"album"`
	DurationMS   int               `json:"duration_ms"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for items Spotify can no longer resolve.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	IsLocal bool          `json:"is_local"`
	Track   *SpotifyTrack `json:"track"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type tracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Owner  Owner     `json:"owner"`
	Tracks tracksRef `json:"tracks"`
}

// SpotifyService implements the [Service] interface for Spotify API interactions.
type SpotifyService struct {
	config       *oauth2.Config
	showDialog   bool
	playlistsURL string
	httpClient   *http.Client
	pager        *Pager
	logger       *log.Logger
}

// SpotifyOption customizes a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithHTTPClient sets the client used for token exchange and API requests.
func WithHTTPClient(c *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.httpClient = c }
}

// WithEndpoints overrides the authorization and token endpoints.
func WithEndpoints(authURL, tokenURL string) SpotifyOption {
	return func(s *SpotifyService) {
		s.config.Endpoint.AuthURL = authURL
		s.config.Endpoint.TokenURL = tokenURL
	}
}

// WithPlaylistsURL overrides the first playlists page URL.
func WithPlaylistsURL(u string) SpotifyOption {
	return func(s *SpotifyService) {
		if u != "" {
			s.playlistsURL = u
		}
	}
}

// WithShowDialog forces the consent dialog on every authorization.
func WithShowDialog(show bool) SpotifyOption {
	return func(s *SpotifyService) { s.showDialog = show }
}

// WithLimiter paces API requests.
func WithLimiter(l *rate.Limiter) SpotifyOption {
	return func(s *SpotifyService) { s.pager.limiter = l }
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) SpotifyOption {
	return func(s *SpotifyService) { s.logger = l }
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	s := &SpotifyService{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       DefaultScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   spotifyauth.AuthURL,
				TokenURL:  spotifyauth.TokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		playlistsURL: spotifyPlaylistsURL,
		httpClient:   http.DefaultClient,
		pager:        NewPager(nil, nil, nil),
		logger:       shared.NewLogger(nil),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.pager.client = s.httpClient
	s.pager.logger = shared.WithLogger(s.logger, "component", "pager")

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the authorization URL: response_type, client_id, scope, redirect_uri and show_dialog.
func (s *SpotifyService) AuthURL() string {
	return s.config.AuthCodeURL("", oauth2.SetAuthURLParam("show_dialog", fmt.Sprintf("%t", s.showDialog)))
}

// Exchange trades an authorization code for an access token at the token endpoint.
//
// The client credentials are sent as HTTP Basic auth with a grant_type=authorization_code form body.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: response contained no access_token", shared.ErrTokenExchange)
	}

	return token.AccessToken, nil
}

// Playlists retrieves every playlist of the current user, following pagination.
func (s *SpotifyService) Playlists(ctx context.Context, credential string) ([]models.Playlist, error) {
	if credential == "" {
		return nil, shared.ErrNotAuthenticated
	}

	s.logger.Debug("fetching playlists", "url", s.playlistsURL)
	return FetchAllPages(ctx, s.pager, s.playlistsURL, credential, extractPlaylists)
}

// Tracks retrieves every track of playlist, following pagination from its tracks href.
func (s *SpotifyService) Tracks(ctx context.Context, credential string, playlist models.Playlist) ([]models.Track, error) {
	if credential == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if playlist.TracksHref == "" {
		return nil, fmt.Errorf("%w: playlist %q has no tracks href", shared.ErrPlaylistNotFound, playlist.Name)
	}

	s.logger.Debug("fetching tracks", "playlist", playlist.Name, "url", playlist.TracksHref)
	return FetchAllPages(ctx, s.pager, playlist.TracksHref, credential, extractTracks)
}

func extractPlaylists(body []byte) ([]models.Playlist, string, error) {
	var page Page[SpotifySimplePlaylist]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", err
	}

	playlists := lo.Map(page.Items, func(p SpotifySimplePlaylist, _ int) models.Playlist {
		return models.Playlist{
			ID:         p.ID,
			Name:       p.Name,
			TracksHref: p.Tracks.Href,
			TrackCount: p.Tracks.Total,
		}
	})

	return playlists, page.NextURL(), nil
}

func extractTracks(body []byte) ([]models.Track, string, error) {
	var page Page[SpotifyPlaylistTrack]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", err
	}

	tracks := lo.FilterMap(page.Items, func(item SpotifyPlaylistTrack, _ int) (models.Track, bool) {
		if item.Track == nil {
			return models.Track{}, false
		}
		return item.Track.toModel(), true
	})

	return tracks, page.NextURL(), nil
}

func (t SpotifyTrack) toModel() models.Track {
	track := models.Track{
		Title:       t.Name,
		DurationMs:  t.DurationMS,
		Album:       t.Album.Name,
		ReleaseDate: t.Album.ReleaseDate,
		ExternalURL: t.ExternalURLs["spotify"],
	}
	if len(t.Artists) > 0 {
		track.Artist = t.Artists[0].Name
	}
	return track
}
