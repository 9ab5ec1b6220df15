// Package tagger writes song metadata into downloaded audio files.
//
// Only MP3 output carries ID3 tags; other containers are left as yt-dlp wrote them.
package tagger

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/desertthunder/songdl/internal/models"
)

// ErrUnsupportedFormat is returned for files that cannot carry ID3 tags.
var ErrUnsupportedFormat = errors.New("unsupported format for ID3 tags")

// artistSeparator matches the filename convention.
const artistSeparator = ", "

// Tagger sets artist, title and album frames on MP3 files.
type Tagger struct{}

// New creates a Tagger.
func New() *Tagger {
	return &Tagger{}
}

// Tag writes song's metadata into the file at path, replacing existing artist/title/album frames.
func (t *Tagger) Tag(path string, song models.SongMetadata) error {
	if !Supports(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetArtist(strings.Join(song.Artists, artistSeparator))
	tag.SetTitle(song.Title)
	if song.Album != "" {
		tag.SetAlbum(song.Album)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}

// Supports reports whether the file extension can carry ID3 tags.
func Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}
