package ui

import (
	"fmt"

	"github.com/desertthunder/songdl/internal/models"
	"github.com/desertthunder/songdl/internal/tasks"
)

// Outcome renders a single run result, e.g. "✓ Daft Punk - Get Lucky: downloaded".
func (p *Palette) Outcome(song models.SongMetadata, o models.Outcome) string {
	line := fmt.Sprintf("%s: %s", song, o)
	switch o.Kind {
	case models.OutcomeDownloaded:
		return p.ok.Render("✓ " + line)
	case models.OutcomeSkipped:
		return p.Muted("- " + line)
	case models.OutcomeNotFound:
		return p.warn.Render("? " + line)
	default:
		return p.err.Render("✗ " + line)
	}
}

// Progress renders a progress update from a running orchestrator.
func (p *Palette) Progress(u tasks.ProgressUpdate) string {
	return p.Muted(fmt.Sprintf("[%s] %s", u.Phase, u.Message))
}
