package sources

import (
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"github.com/anatolykoptev/go_scribe/internal/engine"
)

// YouTube Innertube API: low-level constants, types, and the timedtext decoder.
// All higher-level logic lives in youtube_transcript.go.

const (
	ytWatchURL       = "https://www.youtube.com/watch"
	ytInnertubeURL   = "https://www.youtube.com/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"
)

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

// --- ANDROID client types (/player endpoint) ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		Title string `json:"title"`
	} `json:"videoDetails"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

func (p *playerResponse) title() string {
	if p.VideoDetails == nil {
		return ""
	}
	return p.VideoDetails.Title
}

// --- Timedtext XML types ---

// ytTimedText covers both the legacy <transcript><text> format and srv3
// <timedtext><body><p>.
type ytTimedText struct {
	Lines []ytLine `xml:"text"`
	Paras []ytPara `xml:"body>p"`
}

type ytLine struct {
	Text string `xml:",chardata"`
}

type ytPara struct {
	Text string `xml:",chardata"`
	Segs []struct {
		Text string `xml:",chardata"`
	} `xml:"s"`
}

// parseTimedText joins caption segments with single spaces. Entities are
// decoded twice because YouTube escapes them inside the XML escaping.
func parseTimedText(body []byte) (string, error) {
	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var parts []string
	add := func(s string) {
		s = engine.CollapseSpace(engine.CleanHTML(html.UnescapeString(s)))
		if s != "" {
			parts = append(parts, s)
		}
	}
	for _, line := range tt.Lines {
		add(line.Text)
	}
	for _, p := range tt.Paras {
		if len(p.Segs) == 0 {
			add(p.Text)
			continue
		}
		for _, seg := range p.Segs {
			add(seg.Text)
		}
	}
	return strings.Join(parts, " "), nil
}
