package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// YouTube transcript fetching.
// Primary:  watch page ytInitialPlayerResponse → caption track → timedtext XML
// Fallback: ANDROID Innertube /player → caption track (when the page cannot be used)

// Transcript is the fetched caption text of one video.
type Transcript struct {
	VideoID  string
	Title    string
	Language string
	Text     string
}

// TranscriptClient fetches YouTube transcripts. Zero value uses the public
// YouTube endpoints and engine.HTTPClient.
type TranscriptClient struct {
	HTTPClient *http.Client
	WatchURL   string // watch page base, default https://www.youtube.com/watch
	PlayerURL  string // Innertube player endpoint
}

var errLoginRequired = errors.New("player response requires login")

// Fetch returns the transcript for videoID in the first available language
// of langs. Outcome errors are ErrVideoUnavailable, ErrCaptionsDisabled and
// ErrNoTranscript; anything else is a lower-level failure.
func (c *TranscriptClient) Fetch(ctx context.Context, videoID string, langs []string) (t *Transcript, err error) {
	engine.IncrTranscript()
	defer func() {
		if err != nil {
			engine.IncrTranscriptError()
		}
	}()

	t, err = c.viaWatchPage(ctx, videoID, langs)
	if err == nil || isOutcome(err) {
		return t, err
	}
	slog.Warn("youtube: page scrape failed, trying player",
		slog.String("id", videoID), slog.Any("err", err))

	pt, perr := c.viaPlayer(ctx, videoID, langs)
	if perr != nil {
		return nil, perr
	}
	if t != nil && pt.Title == "" {
		pt.Title = t.Title
	}
	return pt, nil
}

func isOutcome(err error) bool {
	return errors.Is(err, ErrVideoUnavailable) ||
		errors.Is(err, ErrCaptionsDisabled) ||
		errors.Is(err, ErrNoTranscript)
}

// viaWatchPage scrapes the watch page and reads ytInitialPlayerResponse.
// A non-nil Transcript carrying only the title may accompany an error.
func (c *TranscriptClient) viaWatchPage(ctx context.Context, videoID string, langs []string) (*Transcript, error) {
	body, err := c.get(ctx, watchURL(c.watchBase(), videoID), map[string]string{
		"User-Agent":      engine.RandomUserAgent(),
		"Accept-Language": "en-US,en;q=0.9",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	}, 6*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	t := &Transcript{VideoID: videoID, Title: PageTitle(body)}

	idx := bytes.Index(body, []byte(ytInitialPlayerResponseMarker))
	if idx < 0 {
		return t, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return t, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}
	var pr playerResponse
	if err := json.Unmarshal(jsonData, &pr); err != nil {
		return t, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if t.Title == "" {
		t.Title = pr.title()
	}

	track, err := selectTrack(&pr, langs)
	if err != nil {
		return t, err
	}
	return c.complete(ctx, t, track)
}

// viaPlayer uses the ANDROID Innertube /player endpoint.
func (c *TranscriptClient) viaPlayer(ctx context.Context, videoID string, langs []string) (*Transcript, error) {
	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	resp, err := engine.RetryHTTP(ctx, engine.TransportRetry(), func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL()+"?prettyPrint=false", bytes.NewReader(reqBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", ytAndroidUA)
		req.Header.Set("X-Youtube-Client-Name", "3")
		req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)
		return c.client().Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("android innertube: HTTP %d", resp.StatusCode)
	}

	var pr playerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 3*1024*1024)).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode player: %w", err)
	}
	track, err := selectTrack(&pr, langs)
	if err != nil {
		return nil, err
	}
	return c.complete(ctx, &Transcript{VideoID: videoID, Title: pr.title()}, track)
}

func (c *TranscriptClient) complete(ctx context.Context, t *Transcript, track captionTrack) (*Transcript, error) {
	body, err := c.get(ctx, track.BaseURL, map[string]string{"User-Agent": engine.UserAgentBot}, 512*1024)
	if err != nil {
		return t, fmt.Errorf("fetch timedtext: %w", err)
	}
	text, err := parseTimedText(body)
	if err != nil {
		return t, err
	}
	if text == "" {
		return t, fmt.Errorf("%w: caption track %q is empty", ErrNoTranscript, track.LanguageCode)
	}
	t.Language = track.LanguageCode
	t.Text = text
	return t, nil
}

// selectTrack classifies a player response into a usable caption track or
// one of the outcome errors. LOGIN_REQUIRED is a bot check, not a verdict on
// the video, so it is left unclassified.
func selectTrack(pr *playerResponse, langs []string) (captionTrack, error) {
	if ps := pr.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		if ps.Status == "LOGIN_REQUIRED" {
			return captionTrack{}, fmt.Errorf("%w: %s", errLoginRequired, ps.Reason)
		}
		if ps.Reason != "" {
			return captionTrack{}, fmt.Errorf("%w: %s", ErrVideoUnavailable, ps.Reason)
		}
		return captionTrack{}, ErrVideoUnavailable
	}
	if pr.Captions == nil || len(pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return captionTrack{}, ErrCaptionsDisabled
	}
	track, ok := pickTrack(pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, langs)
	if !ok {
		return captionTrack{}, fmt.Errorf("%w (tried %s)", ErrNoTranscript, strings.Join(langs, ", "))
	}
	return track, nil
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack selects a caption track for the given language preferences.
// Languages are tried in order; within a language a manual track beats an
// auto-generated one. Tracks that require a PoToken are skipped.
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	for _, lang := range langs {
		var asr *captionTrack
		for i, t := range tracks {
			if t.BaseURL == "" || needsPoToken(t.BaseURL) || !strings.EqualFold(t.LanguageCode, lang) {
				continue
			}
			if t.Kind != "asr" {
				return t, true
			}
			if asr == nil {
				asr = &tracks[i]
			}
		}
		if asr != nil {
			return *asr, true
		}
	}
	return captionTrack{}, false
}

func (c *TranscriptClient) get(ctx context.Context, u string, headers map[string]string, limit int64) ([]byte, error) {
	resp, err := engine.RetryHTTP(ctx, engine.TransportRetry(), func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return c.client().Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func (c *TranscriptClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return engine.HTTPClient()
}

func (c *TranscriptClient) watchBase() string {
	if c.WatchURL != "" {
		return c.WatchURL
	}
	return ytWatchURL
}

func (c *TranscriptClient) playerURL() string {
	if c.PlayerURL != "" {
		return c.PlayerURL
	}
	return ytInnertubeURL
}

// extractJSON returns the first balanced JSON object at the start of b.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
