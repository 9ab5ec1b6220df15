package models

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// DownloadRecord is a persisted [Outcome] of one run.
type DownloadRecord struct {
	id        string
	artists   []string
	title     string
	album     string
	target    string
	outcome   OutcomeKind
	sourceID  string
	sourceURL string
	errorText string
	createdAt time.Time
}

// NewDownloadRecord captures a run's song and outcome. The ID is assigned on insert.
func NewDownloadRecord(song SongMetadata, outcome Outcome) *DownloadRecord {
	r := &DownloadRecord{
		artists:   slices.Clone(song.Artists),
		title:     song.Title,
		album:     song.Album,
		target:    outcome.Path,
		outcome:   outcome.Kind,
		createdAt: time.Now().UTC(),
	}
	if outcome.Source != nil {
		r.sourceID = outcome.Source.ExternalID
		r.sourceURL = outcome.Source.Locator
	}
	if outcome.Err != nil {
		r.errorText = outcome.Err.Error()
	}
	return r
}

// RestoreDownloadRecord rebuilds a record read back from storage.
func RestoreDownloadRecord(id, artists, title, album, target string, outcome OutcomeKind, sourceID, sourceURL, errorText string, createdAt time.Time) *DownloadRecord {
	return &DownloadRecord{
		id:        id,
		artists:   SplitArtists(artists),
		title:     title,
		album:     album,
		target:    target,
		outcome:   outcome,
		sourceID:  sourceID,
		sourceURL: sourceURL,
		errorText: errorText,
		createdAt: createdAt,
	}
}

func (r *DownloadRecord) ID() string           { return r.id }
func (r *DownloadRecord) SetID(id string)      { r.id = id }
func (r *DownloadRecord) CreatedAt() time.Time { return r.createdAt }
func (r *DownloadRecord) Artists() []string    { return r.artists }
func (r *DownloadRecord) Title() string        { return r.title }
func (r *DownloadRecord) Album() string        { return r.album }
func (r *DownloadRecord) Target() string       { return r.target }
func (r *DownloadRecord) Outcome() OutcomeKind { return r.outcome }
func (r *DownloadRecord) SourceID() string     { return r.sourceID }
func (r *DownloadRecord) SourceURL() string    { return r.sourceURL }
func (r *DownloadRecord) Error() string        { return r.errorText }

// JoinedArtists is the storage form of the artist list.
func (r *DownloadRecord) JoinedArtists() string {
	return strings.Join(r.artists, ArtistSeparator)
}

// Validate checks the fields required for storage.
func (r *DownloadRecord) Validate() error {
	if r.id == "" {
		return errors.New("record has no id")
	}
	if r.title == "" {
		return errors.New("record has no title")
	}
	if r.target == "" {
		return errors.New("record has no target")
	}
	return nil
}

// ArtistSeparator separates artists in manifests and storage.
const ArtistSeparator = ";"

// SplitArtists parses a ";"-separated artist list, dropping blanks.
func SplitArtists(s string) []string {
	var artists []string
	for _, a := range strings.Split(s, ArtistSeparator) {
		if a = strings.TrimSpace(a); a != "" {
			artists = append(artists, a)
		}
	}
	return artists
}
