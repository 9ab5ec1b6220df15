package tasks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
)

// ReadManifest parses a batch manifest: one song per row as artists,title[,album].
//
// Artists within the first column are separated by [models.ArtistSeparator].
// A leading header row whose second column is "title" is skipped.
func ReadManifest(r io.Reader) ([]models.SongMetadata, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var songs []models.SongMetadata
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first && len(record) > 1 && strings.EqualFold(strings.TrimSpace(record[1]), "title") {
			continue
		}

		if len(record) < 2 {
			return nil, fmt.Errorf("%w: manifest line %d needs at least artists and title", shared.ErrInvalidInput, line)
		}

		song := models.SongMetadata{
			Artists: models.SplitArtists(record[0]),
			Title:   strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			song.Album = strings.TrimSpace(record[2])
		}

		if err := song.Validate(); err != nil {
			return nil, fmt.Errorf("%w: manifest line %d: %v", shared.ErrInvalidInput, line, err)
		}
		songs = append(songs, song)
	}

	return songs, nil
}

// BatchItems pairs each song with its filename inside dir.
func BatchItems(dir string, songs []models.SongMetadata, opts models.FetchOptions) []BatchItem {
	items := make([]BatchItem, 0, len(songs))
	for _, song := range songs {
		items = append(items, BatchItem{Song: song, Target: SongFilename(dir, song, opts)})
	}
	return items
}
