// YouTube [Catalog] implementation backed by yt-dlp
//
// Searches use yt-dlp's "ytsearchN:" pseudo-URLs with a JSON dump and no download;
// fetches extract audio with ffmpeg post-processing.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/shared"
	"github.com/lrstanley/go-ytdlp"
	"golang.org/x/time/rate"
)

const (
	youtubeWatchURL = "https://www.youtube.com/watch?v=%s"
	audioFormat     = "bestaudio/best"
	progressEvery   = 2 * time.Second
)

// YTDLPCatalog implements [Catalog] for YouTube via the yt-dlp executable.
type YTDLPCatalog struct {
	limiter *rate.Limiter
	timeout time.Duration
	logger  *log.Logger
}

// YTDLPOpts contains configuration options for creating a [YTDLPCatalog].
type YTDLPOpts struct {
	RequestsPerSecond float64       // search throttle, zero or less means unlimited
	Timeout           time.Duration // per call, zero means none
	Logger            *log.Logger
}

// NewYTDLPCatalog creates a new yt-dlp backed catalog.
func NewYTDLPCatalog(opts YTDLPOpts) *YTDLPCatalog {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}

	return &YTDLPCatalog{
		limiter: rate.NewLimiter(limit, 1),
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// Name returns the provider name.
func (c *YTDLPCatalog) Name() string {
	return "YouTube"
}

func (c *YTDLPCatalog) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Search runs "ytsearch<limit>:<query>" and maps each extracted entry.
func (c *YTDLPCatalog) Search(ctx context.Context, query string, limit int) ([]models.CatalogEntry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search throttled: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	result, err := ytdlp.New().
		DumpJSON().
		SkipDownload().
		Run(ctx, SearchTarget(query, limit))
	if err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %w", err)
	}

	infos, err := result.GetExtractedInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}

	entries := make([]models.CatalogEntry, 0, len(infos))
	for _, info := range infos {
		if entry, ok := entryFromInfo(info); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Fetch downloads the best audio stream at locator and converts it to opts.Codec.
func (c *YTDLPCatalog) Fetch(ctx context.Context, locator, outputTemplate string, opts models.FetchOptions) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	dl := ytdlp.New().
		Format(audioFormat).
		NoPlaylist().
		ExtractAudio().
		AudioFormat(opts.Codec).
		AudioQuality(opts.Quality).
		Output(outputTemplate)

	if opts.Quiet {
		dl.Quiet().NoProgress()
	} else {
		logger := shared.WithLogger(c.logger, "source", locator)
		dl.ProgressFunc(progressEvery, func(update ytdlp.ProgressUpdate) {
			logger.Info("downloading", "progress", progressPercent(update.DownloadedBytes, update.TotalBytes), "eta", update.ETA().Round(time.Second))
		})
	}

	if _, err := dl.Run(ctx, locator); err != nil {
		return fmt.Errorf("yt-dlp download failed: %w", err)
	}
	return nil
}

// SearchTarget builds the yt-dlp search pseudo-URL.
func SearchTarget(query string, limit int) string {
	if limit < 1 {
		limit = 1
	}
	return fmt.Sprintf("ytsearch%d:%s", limit, query)
}

// entryFromInfo maps an extracted video; entries without an ID are dropped.
func entryFromInfo(info *ytdlp.ExtractedInfo) (models.CatalogEntry, bool) {
	if info == nil || info.ID == "" {
		return models.CatalogEntry{}, false
	}

	entry := models.CatalogEntry{ID: info.ID}
	if info.Title != nil {
		entry.Title = *info.Title
	}
	if info.WebpageURL != nil && *info.WebpageURL != "" {
		entry.WebpageURL = *info.WebpageURL
	} else {
		entry.WebpageURL = fmt.Sprintf(youtubeWatchURL, info.ID)
	}
	return entry, true
}

func progressPercent(downloaded, total int) string {
	if total <= 0 {
		return "?"
	}
	return fmt.Sprintf("%.1f%%", float64(downloaded)/float64(total)*100)
}
