// Spotify Web API [MetadataSource] implementation
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

var spotifyIDPattern = regexp.MustCompile(`^[0-9A-Za-z]{22}$`)

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	Album   SpotifyAlbum    `json:"album"`
	URI     string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// Metadata converts the track into the pipeline's input.
func (t SpotifyTrack) Metadata() *models.SongMetadata {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return &models.SongMetadata{
		Artists: artists,
		Title:   t.Name,
		Album:   t.Album.Name,
	}
}

// SpotifyService looks up track metadata with the client credentials flow.
//
// No user login is involved; the token is fetched and refreshed by [clientcredentials.Config].
type SpotifyService struct {
	config     *clientcredentials.Config
	baseURL    string
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	return &SpotifyService{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		},
		baseURL: spotifyBaseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate fetches an app token and prepares the HTTP client.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if _, err := s.config.Token(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	s.httpClient = s.config.Client(ctx)
	return nil
}

// doRequest performs an authenticated GET against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		if err := s.Authenticate(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return shared.ErrTrackNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Track retrieves a single track by ID.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	if err := s.doRequest(ctx, "/tracks/"+url.PathEscape(trackID), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetTrack resolves a track ID, spotify:track: URI or open.spotify.com URL into song metadata.
func (s *SpotifyService) GetTrack(ctx context.Context, ref string) (*models.SongMetadata, error) {
	id, err := ParseTrackRef(ref)
	if err != nil {
		return nil, err
	}

	track, err := s.Track(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get track %s: %w", id, err)
	}

	song := track.Metadata()
	if err := song.Validate(); err != nil {
		return nil, fmt.Errorf("%w: track %s: %v", shared.ErrInvalidInput, id, err)
	}
	return song, nil
}

// ParseTrackRef extracts the track ID from the forms users paste.
func ParseTrackRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	switch {
	case strings.HasPrefix(ref, "spotify:track:"):
		ref = strings.TrimPrefix(ref, "spotify:track:")
	case strings.Contains(ref, "open.spotify.com"):
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		ref = ""
		for i := 0; i < len(parts)-1; i++ {
			if parts[i] == "track" {
				ref = parts[i+1]
				break
			}
		}
	}

	if !spotifyIDPattern.MatchString(ref) {
		return "", fmt.Errorf("%w: not a spotify track reference", shared.ErrInvalidArgument)
	}
	return ref, nil
}
