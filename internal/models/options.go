package models

import (
	"fmt"
	"regexp"
	"slices"
)

const (
	DefaultCodec   = "mp3"
	DefaultQuality = "320"
)

// Codecs lists the audio formats the provider can extract to.
var Codecs = []string{"aac", "alac", "flac", "m4a", "mp3", "opus", "vorbis", "wav"}

// codec → file extension, where they differ
var codecExtensions = map[string]string{
	"vorbis": "ogg",
	"alac":   "m4a",
}

// 0-10 VBR scale, or a bitrate such as 192 / 192K
var qualityPattern = regexp.MustCompile(`^(?:[0-9]|10|[1-9][0-9]{1,3}[kK]?)$`)

// FetchOptions configures the provider's audio extraction.
//
// The pipeline forwards these as-is; only the provider interprets them.
type FetchOptions struct {
	Codec   string `toml:"codec"`
	Quality string `toml:"quality"`
	Quiet   bool   `toml:"quiet"`
}

// WithDefaults returns a copy with empty fields filled in.
func (o FetchOptions) WithDefaults() FetchOptions {
	if o.Codec == "" {
		o.Codec = DefaultCodec
	}
	if o.Quality == "" {
		o.Quality = DefaultQuality
	}
	return o
}

// Validate rejects unknown codecs and malformed qualities.
func (o FetchOptions) Validate() error {
	if !slices.Contains(Codecs, o.Codec) {
		return fmt.Errorf("unsupported codec %q", o.Codec)
	}
	if !qualityPattern.MatchString(o.Quality) {
		return fmt.Errorf("malformed quality %q", o.Quality)
	}
	return nil
}

// Extension returns the file extension (without dot) produced by the codec.
func (o FetchOptions) Extension() string {
	if ext, ok := codecExtensions[o.Codec]; ok {
		return ext
	}
	return o.Codec
}
