package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/plx/internal/models"
	"github.com/desertthunder/plx/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"redirect_uri":  "http://localhost:8888/callback",
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			require.NoError(t, err)
			assert.Equal(t, "Spotify", srv.Name())
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "s"})
			assert.ErrorIs(t, err, shared.ErrMissingCredentials)
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "id"})
			assert.ErrorIs(t, err, shared.ErrMissingCredentials)
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(map[string]string{"client_id": "id", "client_secret": "s"})
			require.NoError(t, err)
			assert.Equal(t, defaultRedirectURI, srv.config.RedirectURL)
		})
	})

	t.Run("AuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		require.NoError(t, err)

		u, err := url.Parse(srv.AuthURL())
		require.NoError(t, err)
		assert.Equal(t, "accounts.spotify.com", u.Host)
		assert.Equal(t, "/authorize", u.Path)

		q := u.Query()
		assert.Equal(t, "code", q.Get("response_type"))
		assert.Equal(t, "test_client_id", q.Get("client_id"))
		assert.Equal(t, "user-read-private playlist-read-private playlist-read-collaborative", q.Get("scope"))
		assert.Equal(t, "http://localhost:8888/callback", q.Get("redirect_uri"))
		assert.Equal(t, "false", q.Get("show_dialog"))
	})

	t.Run("AuthURL with dialog", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials(), WithShowDialog(true))
		require.NoError(t, err)

		u, err := url.Parse(srv.AuthURL())
		require.NoError(t, err)
		assert.Equal(t, "true", u.Query().Get("show_dialog"))
	})

	t.Run("Exchange", func(t *testing.T) {
		t.Run("posts code with basic auth exactly once", func(t *testing.T) {
			var calls int32
			tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				assert.Equal(t, http.MethodPost, r.Method)

				user, pass, ok := r.BasicAuth()
				assert.True(t, ok)
				assert.Equal(t, "test_client_id", user)
				assert.Equal(t, "test_client_secret", pass)

				assert.NoError(t, r.ParseForm())
				assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
				assert.Equal(t, "the-code", r.PostForm.Get("code"))
				assert.Equal(t, "http://localhost:8888/callback", r.PostForm.Get("redirect_uri"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
			}))
			defer tokenSrv.Close()

			srv, err := NewSpotifyService(testCredentials(),
				WithEndpoints(tokenSrv.URL+"/authorize", tokenSrv.URL+"/api/token"),
				WithHTTPClient(tokenSrv.Client()))
			require.NoError(t, err)

			token, err := srv.Exchange(context.Background(), "the-code")
			require.NoError(t, err)
			assert.Equal(t, "access-123", token)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})

		t.Run("rejected code", func(t *testing.T) {
			tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			}))
			defer tokenSrv.Close()

			srv, err := NewSpotifyService(testCredentials(),
				WithEndpoints(tokenSrv.URL+"/authorize", tokenSrv.URL+"/api/token"),
				WithHTTPClient(tokenSrv.Client()))
			require.NoError(t, err)

			_, err = srv.Exchange(context.Background(), "bad")
			assert.ErrorIs(t, err, shared.ErrTokenExchange)
		})
	})

	t.Run("Playlists", func(t *testing.T) {
		var api *httptest.Server
		api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			switch r.URL.Query().Get("offset") {
			case "":
				next := api.URL + "/v1/me/playlists?offset=1"
				writePage(t, w, Page[SpotifySimplePlaylist]{
					Items: []SpotifySimplePlaylist{{ID: "p1", Name: "Rock", Tracks: tracksRef{Href: api.URL + "/p1", Total: 2}}},
					Next:  &next,
				})
			default:
				writePage(t, w, Page[SpotifySimplePlaylist]{
					Items: []SpotifySimplePlaylist{{ID: "p2", Name: "Jazz", Tracks: tracksRef{Href: api.URL + "/p2", Total: 0}}},
				})
			}
		}))
		defer api.Close()

		srv, err := NewSpotifyService(testCredentials(), WithHTTPClient(api.Client()), WithPlaylistsURL(api.URL+"/v1/me/playlists"))
		require.NoError(t, err)

		playlists, err := srv.Playlists(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, []models.Playlist{
			{ID: "p1", Name: "Rock", TracksHref: api.URL + "/p1", TrackCount: 2},
			{ID: "p2", Name: "Jazz", TracksHref: api.URL + "/p2", TrackCount: 0},
		}, playlists)
	})

	t.Run("Playlists without credential", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		require.NoError(t, err)

		_, err = srv.Playlists(context.Background(), "")
		assert.ErrorIs(t, err, shared.ErrNotAuthenticated)
	})

	t.Run("Tracks", func(t *testing.T) {
		api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = fmt.Fprint(w, `{
				"items": [
					{"track": {
						"name": "Song A", "duration_ms": 3661000,
						"artists": [{"name": "First"}, {"name": "Second"}],
						"album": {"name": "Album A", "release_date": "1999"},
						"external_urls": {"spotify": "https://open.spotify.com/track/a"}
					}},
					{"is_local": true, "track": null},
					{"track": {"name": "Song B", "duration_ms": 1000, "artists": [], "album": {"name": "B"}, "external_urls": {}}}
				],
				"next": null
			}`)
		}))
		defer api.Close()

		srv, err := NewSpotifyService(testCredentials(), WithHTTPClient(api.Client()))
		require.NoError(t, err)

		tracks, err := srv.Tracks(context.Background(), "tok", models.Playlist{Name: "Mix", TracksHref: api.URL + "/tracks"})
		require.NoError(t, err)
		require.Len(t, tracks, 2)

		assert.Equal(t, models.Track{
			Title:       "Song A",
			DurationMs:  3661000,
			Artist:      "First",
			Album:       "Album A",
			ReleaseDate: "1999",
			ExternalURL: "https://open.spotify.com/track/a",
		}, tracks[0])
		assert.Equal(t, "", tracks[1].Artist)
		assert.Equal(t, "00:00:01", tracks[1].Duration())
	})

	t.Run("Tracks without href", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		require.NoError(t, err)

		_, err = srv.Tracks(context.Background(), "tok", models.Playlist{Name: "Empty"})
		assert.ErrorIs(t, err, shared.ErrPlaylistNotFound)
	})
}

func writePage[T any](t *testing.T, w http.ResponseWriter, page Page[T]) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(page))
}
