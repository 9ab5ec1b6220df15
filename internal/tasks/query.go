package tasks

import (
	"path/filepath"
	"strings"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
)

// QuerySeparator joins artists and title in queries and filenames.
const QuerySeparator = ", "

// audioSuffix biases results toward plain audio uploads over music videos and live takes.
const audioSuffix = " audio"

// BuildQuery joins artists with sep and appends the title with the same separator.
func BuildQuery(artists []string, title, sep string) string {
	return strings.Join(artists, sep) + sep + title
}

// PrimaryQuery is the first search issued for a song.
func PrimaryQuery(song models.SongMetadata) string {
	return BuildQuery(song.Artists, song.Title, QuerySeparator) + audioSuffix
}

// FallbackQuery is the single retry, with the album appended.
func FallbackQuery(song models.SongMetadata) string {
	return BuildQuery(song.Artists, song.Title, QuerySeparator) + " " + song.Album + audioSuffix
}

// SongFilename returns "<artists>, <title>.<ext>" inside dir.
func SongFilename(dir string, song models.SongMetadata, opts models.FetchOptions) string {
	name := shared.SanitizeFilename(BuildQuery(song.Artists, song.Title, QuerySeparator))
	return filepath.Join(dir, name+"."+opts.Extension())
}

// OutputTemplate swaps the target's extension for the provider's extension placeholder.
func OutputTemplate(target string) string {
	return strings.TrimSuffix(target, filepath.Ext(target)) + ".%(ext)s"
}
