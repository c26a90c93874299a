package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/watch?feature=share&v=abc123", want: "abc123"},
		{url: "https://youtu.be/dQw4w9WgXcQ?si=xyz", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/v/dQw4w9WgXcQ/extra", want: "dQw4w9WgXcQ"},
		{url: "https://youtube.com/shorts/shortID01", want: "shortID01"},
		{url: "youtube.com/watch?v=noScheme", want: "noScheme"},
		{url: "https://www.youtube.com/channel/UC123", wantErr: true},
		{url: "https://example.com/page", wantErr: true},
		{url: "https://www.youtube.com/watch?v=", wantErr: true},
		{url: "", wantErr: true},
		{url: "https://youtu.be/a b", wantErr: true},
		{url: "https://www.youtube.com/watch?v=a%20b", wantErr: true},
		{url: "https://www.youtube.com/embed/<script>", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := ExtractVideoID(tt.url)
			if tt.wantErr {
				if !errors.Is(err, ErrVideoIDNotFound) {
					t.Errorf("ExtractVideoID(%q) err = %v, want ErrVideoIDNotFound", tt.url, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, %v; want %q", tt.url, got, err, tt.want)
			}
		})
	}
}

func TestPickTrack(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "u-de-asr", LanguageCode: "de", Kind: "asr"},
		{BaseURL: "u-en-asr", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "u-fr", LanguageCode: "fr"},
		{BaseURL: "u-en-gb&exp=xpe", LanguageCode: "en-GB"},
		{BaseURL: "u-hi", LanguageCode: "hi"},
		{BaseURL: "u-es-asr", LanguageCode: "es", Kind: "asr"},
		{BaseURL: "u-es", LanguageCode: "es"},
	}
	tests := []struct {
		name  string
		langs []string
		want  string
		ok    bool
	}{
		{"first language wins over a later manual track", []string{"en", "fr"}, "u-en-asr", true},
		{"manual track in the first language", []string{"fr", "en"}, "u-fr", true},
		{"asr when no manual", []string{"en"}, "u-en-asr", true},
		{"asr in first language beats manual in second", []string{"en", "hi"}, "u-en-asr", true},
		{"manual beats asr within a language", []string{"es"}, "u-es", true},
		{"skips languages without tracks", []string{"ja", "hi"}, "u-hi", true},
		{"potoken tracks skipped", []string{"en-GB"}, "", false},
		{"no match", []string{"ja"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickTrack(tracks, tt.langs)
			if ok != tt.ok || got.BaseURL != tt.want {
				t.Errorf("pickTrack(%v) = %q, %v; want %q, %v", tt.langs, got.BaseURL, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseTimedText(t *testing.T) {
	legacy := `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0" dur="1.5">Hello &amp;amp; welcome</text>
<text start="1.5" dur="2">it&amp;#39;s   a
test</text>
<text start="3" dur="1"></text>
</transcript>`
	got, err := parseTimedText([]byte(legacy))
	if err != nil {
		t.Fatalf("parseTimedText() error = %v", err)
	}
	if want := "Hello & welcome it's a test"; got != want {
		t.Errorf("legacy = %q, want %q", got, want)
	}

	srv3 := `<timedtext format="3"><body><p t="0" d="1000"><s>one</s><s> two</s></p><p t="1000">three</p></body></timedtext>`
	got, err = parseTimedText([]byte(srv3))
	if err != nil {
		t.Fatalf("parseTimedText(srv3) error = %v", err)
	}
	if want := "one two three"; got != want {
		t.Errorf("srv3 = %q, want %q", got, want)
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"og title", `<html><head><title>Ignored - YouTube</title><meta property="og:title" content="Real Title"></head><body></body></html>`, "Real Title"},
		{"title fallback", `<html><head><title>Video Name - YouTube</title></head><body><meta property="og:title" content="late"></body></html>`, "Video Name"},
		{"none", `<html><body>nothing</body></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PageTitle([]byte(tt.html)); got != tt.want {
				t.Errorf("PageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	in := []byte(`{"a":"}","b":{"c":"\"{"}};var x = 1;`)
	if got := string(extractJSON(in)); got != `{"a":"}","b":{"c":"\"{"}}` {
		t.Errorf("extractJSON() = %q", got)
	}
	if extractJSON([]byte(`not json`)) != nil {
		t.Error("expected nil for non-object input")
	}
}

// ytFake serves a watch page, the player endpoint and a timedtext track.
type ytFake struct {
	watchStatus int
	pagePlayer  string // JSON embedded as ytInitialPlayerResponse, "" = marker absent
	player      string // JSON returned by /player
	playerHits  int
	watchIDs    []string
}

func (f *ytFake) server(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			f.watchIDs = append(f.watchIDs, r.URL.Query().Get("v"))
			if f.watchStatus != 0 {
				w.WriteHeader(f.watchStatus)
				return
			}
			fmt.Fprintf(w, `<html><head><meta property="og:title" content="Demo Video"></head><body>`)
			if f.pagePlayer != "" {
				fmt.Fprintf(w, `<script>var ytInitialPlayerResponse = %s;</script>`, strings.ReplaceAll(f.pagePlayer, "{{base}}", srv.URL))
			}
			fmt.Fprint(w, `</body></html>`)
		case "/player":
			f.playerHits++
			_, _ = w.Write([]byte(strings.ReplaceAll(f.player, "{{base}}", srv.URL)))
		case "/timedtext":
			_, _ = w.Write([]byte(`<transcript><text>caption ` + r.URL.Query().Get("lang") + `</text><text>line two</text></transcript>`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func playerJSON(status string, tracks ...captionTrack) string {
	pr := map[string]any{"playabilityStatus": map[string]string{"status": status, "reason": "reason text"}}
	if tracks != nil {
		pr["captions"] = map[string]any{
			"playerCaptionsTracklistRenderer": map[string]any{"captionTracks": tracks},
		}
	}
	b, _ := json.Marshal(pr)
	return string(b)
}

func TestTranscriptClientFetch(t *testing.T) {
	enTrack := captionTrack{BaseURL: "{{base}}/timedtext?lang=en", LanguageCode: "en"}
	deTrack := captionTrack{BaseURL: "{{base}}/timedtext?lang=de", LanguageCode: "de"}

	tests := []struct {
		name        string
		fake        ytFake
		wantErr     error
		wantText    string
		wantTitle   string
		wantPlayers int
	}{
		{
			name:      "watch page success",
			fake:      ytFake{pagePlayer: playerJSON("OK", deTrack, enTrack)},
			wantText:  "caption en line two",
			wantTitle: "Demo Video",
		},
		{
			name:    "captions disabled",
			fake:    ytFake{pagePlayer: playerJSON("OK")},
			wantErr: ErrCaptionsDisabled,
		},
		{
			name:    "no transcript in languages",
			fake:    ytFake{pagePlayer: playerJSON("OK", deTrack)},
			wantErr: ErrNoTranscript,
		},
		{
			name:    "video unavailable",
			fake:    ytFake{pagePlayer: playerJSON("ERROR")},
			wantErr: ErrVideoUnavailable,
		},
		{
			name:        "watch page blocked falls back to player",
			fake:        ytFake{watchStatus: http.StatusTooManyRequests, player: playerJSON("OK", enTrack)},
			wantText:    "caption en line two",
			wantPlayers: 1,
		},
		{
			name:        "login required on page falls back to player",
			fake:        ytFake{pagePlayer: playerJSON("LOGIN_REQUIRED"), player: playerJSON("OK", enTrack)},
			wantText:    "caption en line two",
			wantTitle:   "Demo Video",
			wantPlayers: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := tt.fake
			srv := fake.server(t)
			c := &TranscriptClient{HTTPClient: srv.Client(), WatchURL: srv.URL + "/watch", PlayerURL: srv.URL + "/player"}

			got, err := c.Fetch(context.Background(), "vid123", []string{"en", "en-US"})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() err = %v, want %v", err, tt.wantErr)
				}
				if fake.playerHits != 0 {
					t.Errorf("player called %d times after a definitive outcome", fake.playerHits)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if got.Text != tt.wantText || got.Language != "en" || got.VideoID != "vid123" {
				t.Errorf("Fetch() = %+v", got)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if fake.playerHits != tt.wantPlayers {
				t.Errorf("player hits = %d, want %d", fake.playerHits, tt.wantPlayers)
			}
		})
	}
}

func TestTranscriptClientFetch_UnknownFailure(t *testing.T) {
	fake := ytFake{watchStatus: http.StatusInternalServerError, player: `not json`}
	srv := fake.server(t)
	c := &TranscriptClient{HTTPClient: srv.Client(), WatchURL: srv.URL + "/watch", PlayerURL: srv.URL + "/player"}

	_, err := c.Fetch(context.Background(), "vid123", []string{"en"})
	if err == nil {
		t.Fatal("expected error")
	}
	if isOutcome(err) {
		t.Errorf("err = %v should not be a transcript outcome", err)
	}
}

func TestWatchURLEscapesID(t *testing.T) {
	if got, want := watchURL("https://www.youtube.com/watch", "a b&x=1"), "https://www.youtube.com/watch?v=a+b%26x%3D1"; got != want {
		t.Errorf("watchURL() = %q, want %q", got, want)
	}

	fake := ytFake{pagePlayer: playerJSON("OK")}
	srv := fake.server(t)
	c := &TranscriptClient{HTTPClient: srv.Client(), WatchURL: srv.URL + "/watch", PlayerURL: srv.URL + "/player"}
	_, _ = c.Fetch(context.Background(), "id&v=other", []string{"en"})
	if len(fake.watchIDs) != 1 || fake.watchIDs[0] != "id&v=other" {
		t.Errorf("watch page saw ids %q, want [\"id&v=other\"]", fake.watchIDs)
	}
}
