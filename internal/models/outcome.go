package models

import "fmt"

// OutcomeKind enumerates the terminal states of one pipeline run.
type OutcomeKind int

const (
	OutcomeSkipped OutcomeKind = iota
	OutcomeDownloaded
	OutcomeNotFound
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeFailed:
		return "failed"
	default:
		return ""
	}
}

// ParseOutcomeKind is the inverse of [OutcomeKind.String].
func ParseOutcomeKind(s string) (OutcomeKind, error) {
	for _, k := range []OutcomeKind{OutcomeSkipped, OutcomeDownloaded, OutcomeNotFound, OutcomeFailed} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// Outcome is the single terminal result of a run.
type Outcome struct {
	Kind   OutcomeKind
	Reason string          // set for Skipped
	Err    error           // set for Failed
	Source *ResolvedSource // set for Downloaded, and for Failed when the fetch failed
	Path   string          // target filename of the run
}

func Skipped(path, reason string) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: reason, Path: path}
}

func Downloaded(path string, src *ResolvedSource) Outcome {
	return Outcome{Kind: OutcomeDownloaded, Source: src, Path: path}
}

func SourceNotFound(path string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Path: path}
}

func Failed(path string, src *ResolvedSource, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err, Source: src, Path: path}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSkipped:
		return fmt.Sprintf("skipped (%s)", o.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("failed: %v", o.Err)
	default:
		return o.Kind.String()
	}
}
