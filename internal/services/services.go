// package services defines the external collaborators of the download pipeline
//
// Catalog (video platform search + fetch), Spotify (track metadata)
package services

import (
	"context"

	"github.com/desertthunder/songdl/internal/models"
)

// Catalog is a video platform that can be searched and fetched from.
//
// Implementations may fail transiently (network, rate limits); callers decide whether to retry.
type Catalog interface {
	// Search returns up to limit entries for query, in the provider's order. No media is downloaded.
	Search(ctx context.Context, query string, limit int) ([]models.CatalogEntry, error)

	// Fetch downloads the audio at locator, extracting it per opts.
	//
	// outputTemplate is the output path with a "%(ext)s" placeholder for the resolved extension.
	Fetch(ctx context.Context, locator, outputTemplate string, opts models.FetchOptions) error

	// Name returns the name of the provider (e.g., "YouTube")
	Name() string
}

// MetadataSource resolves a track reference into the metadata the pipeline searches with.
type MetadataSource interface {
	GetTrack(ctx context.Context, ref string) (*models.SongMetadata, error)
	Name() string
}
