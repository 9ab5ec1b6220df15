package models

// CatalogEntry is one result of a catalog search, in the provider's order.
type CatalogEntry struct {
	ID         string
	Title      string
	WebpageURL string
}

// ResolvedSource is a catalog entry whose title matched the requested song.
//
// It is only constructed after a successful match; there is no partial state.
type ResolvedSource struct {
	ExternalID   string
	DisplayTitle string
	Locator      string
}

// ResolutionStatus tells a resolved source apart from a search that found nothing acceptable.
type ResolutionStatus int

const (
	NotFound ResolutionStatus = iota
	Resolved
)

func (s ResolutionStatus) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	default:
		return ""
	}
}

// Resolution is the result of a completed search. Source is set only when Status is Resolved.
type Resolution struct {
	Status ResolutionStatus
	Source *ResolvedSource
}

// NewResolution builds a Resolved [Resolution] from an accepted entry.
func NewResolution(entry CatalogEntry) Resolution {
	return Resolution{
		Status: Resolved,
		Source: &ResolvedSource{
			ExternalID:   entry.ID,
			DisplayTitle: entry.Title,
			Locator:      entry.WebpageURL,
		},
	}
}

// Unresolved returns the NotFound [Resolution].
func Unresolved() Resolution {
	return Resolution{Status: NotFound}
}
