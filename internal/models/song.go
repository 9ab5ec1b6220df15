package models

import (
	"errors"
	"strings"
)

// SongMetadata describes the track to download. It is owned by the caller and
// must not change while a run is in progress.
type SongMetadata struct {
	Artists []string
	Title   string
	Album   string // may be empty
}

// Validate reports whether the metadata can be searched for.
func (s SongMetadata) Validate() error {
	if len(s.Artists) == 0 {
		return errors.New("song has no artists")
	}
	for _, a := range s.Artists {
		if strings.TrimSpace(a) == "" {
			return errors.New("song has an empty artist name")
		}
	}
	if s.Title == "" {
		return errors.New("song has no title")
	}
	return nil
}

func (s SongMetadata) String() string {
	return strings.Join(s.Artists, ", ") + " - " + s.Title
}
