package sources

// YouTube implementation is split across four files by responsibility:
//   youtube.go: video id extraction and the transcript outcome errors
//   youtube_innertube.go: Innertube player types, constants, and timedtext parsing
//   youtube_transcript.go: transcript fetching (watch page scrape + ANDROID player fallback)
//   youtube_title.go: video title from the watch page

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Transcript outcomes. Each maps to a distinct user-visible message.
var (
	ErrVideoIDNotFound  = errors.New("video id not found in URL")
	ErrCaptionsDisabled = errors.New("captions are disabled for this video")
	ErrNoTranscript     = errors.New("no transcript available in the requested languages")
	ErrVideoUnavailable = errors.New("video is unavailable")
)

// videoIDMarkers are the path prefixes that precede a video id.
var videoIDMarkers = []string{"youtu.be/", "/embed/", "/v/", "/shorts/", "/live/"}

// ExtractVideoID returns the id following the v= query marker or one of the
// path markers, up to the next '&', '/', '?' or '#'. Ids with characters
// outside [A-Za-z0-9_-] are rejected.
func ExtractVideoID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", ErrVideoIDNotFound
	}
	if u, err := url.Parse(s); err == nil {
		if id := cutID(u.Query().Get("v")); id != "" {
			return id, nil
		}
	}
	for _, m := range videoIDMarkers {
		if _, after, ok := strings.Cut(s, m); ok {
			if id := cutID(after); id != "" {
				return id, nil
			}
		}
	}
	return "", ErrVideoIDNotFound
}

// videoIDRe matches the characters YouTube uses in video ids.
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// cutID returns the id at the start of s, or "" when it is not a valid id.
func cutID(s string) string {
	if i := strings.IndexAny(s, "&/?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if !videoIDRe.MatchString(s) {
		return ""
	}
	return s
}

// watchURL returns the watch page URL for a video id under base.
func watchURL(base, videoID string) string {
	return base + "?v=" + url.QueryEscape(videoID)
}
