package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"

	"github.com/Satish0Kumar/youtube-learning-platform-backup/internal/models"
)

const (
	SourceCaptions     = "captions"
	SourceSpeechToText = "speech-to-text"
	SourceUpload       = "upload"
)

// ErrNoTranscript means no captions exist and speech-to-text was not
// possible.
var ErrNoTranscript = errors.New("no transcript available for this video")

// Transcriber turns audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type Transcript struct {
	Text   string
	Source string
}

type YouTubeService struct {
	httpClient    *http.Client
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
	transcriber   Transcriber
}

type timedTextXML struct {
	XMLName xml.Name  `xml:"transcript"`
	Texts   []textXML `xml:"text"`
}

type textXML struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// NewYouTubeService builds the transcript source. transcriber may be nil,
// in which case videos without captions fail with ErrNoTranscript.
func NewYouTubeService(transcriber Transcriber) *YouTubeService {
	return &YouTubeService{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{},
		transcriber:   transcriber,
	}
}

// FetchTranscript tries the captions API, then the timedtext track on the
// watch page, then speech-to-text over the audio stream.
func (s *YouTubeService) FetchTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	text, captionErr := s.getCaptions(ctx, videoID)
	if captionErr == nil {
		return &Transcript{Text: text, Source: SourceCaptions}, nil
	}
	log.Printf("Captions unavailable for %s: %v", videoID, captionErr)

	if s.transcriber == nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTranscript, captionErr)
	}

	audio, mimeType, err := s.DownloadAudio(ctx, fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID))
	if err != nil {
		return nil, fmt.Errorf("%w: captions failed (%v) and audio download failed (%v)", ErrNoTranscript, captionErr, err)
	}

	text, err = s.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: captions failed (%v) and speech-to-text failed (%v)", ErrNoTranscript, captionErr, err)
	}
	return &Transcript{Text: text, Source: SourceSpeechToText}, nil
}

func (s *YouTubeService) getCaptions(ctx context.Context, videoID string) (string, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
	if err != nil {
		// Fallback: request any available language
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			legacyTranscript, legacyErr := s.getTranscriptViaTimedText(ctx, videoID)
			if legacyErr == nil {
				return legacyTranscript, nil
			}
			return "", fmt.Errorf("no subtitles available via transcript API (%v) and timedtext fallback failed (%v)", err, legacyErr)
		}
	}

	if len(transcript.Entries) == 0 {
		return "", fmt.Errorf("subtitle track is empty")
	}

	var fullText strings.Builder
	for _, entry := range transcript.Entries {
		text := strings.TrimSpace(html.UnescapeString(entry.Text))
		if text == "" {
			continue
		}
		fullText.WriteString(text)
		fullText.WriteString(" ")
	}

	cleaned := strings.TrimSpace(fullText.String())
	if cleaned == "" {
		return "", fmt.Errorf("subtitle text resolved to empty content")
	}
	return cleaned, nil
}

func (s *YouTubeService) getTranscriptViaTimedText(ctx context.Context, videoID string) (string, error) {
	pageURL := fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch YouTube page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read YouTube page: %w", err)
	}

	captionURL, err := extractCaptionURL(string(body))
	if err != nil {
		return "", err
	}

	captionReq, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return "", err
	}
	captionResp, err := s.httpClient.Do(captionReq)
	if err != nil {
		return "", fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer captionResp.Body.Close()

	captionBody, err := io.ReadAll(captionResp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read captions: %w", err)
	}

	transcript, err := parseCaptionsXML(captionBody)
	if err != nil {
		return "", fmt.Errorf("failed to parse captions XML: %w", err)
	}
	return transcript, nil
}

var (
	captionTracksPattern   = regexp.MustCompile(`"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	captionRendererPattern = regexp.MustCompile(`"playerCaptionsTracklistRenderer"\s*:\s*\{(?:.*?,)?\s*"captionTracks"\s*:\s*\[(.*?)\],\s*"`)
	baseURLPattern         = regexp.MustCompile(`"baseUrl"\s*:\s*"(.*?)"`)
)

func extractCaptionURL(pageHTML string) (string, error) {
	matches := captionTracksPattern.FindStringSubmatch(pageHTML)
	if len(matches) < 2 {
		matches = captionRendererPattern.FindStringSubmatch(pageHTML)
		if len(matches) < 2 {
			return "", fmt.Errorf("no captions available for this video")
		}
	}

	urlMatches := baseURLPattern.FindStringSubmatch(matches[1])
	if len(urlMatches) < 2 {
		return "", fmt.Errorf("caption track found but baseUrl missing")
	}

	u := urlMatches[1]
	u = strings.ReplaceAll(u, `\u0026`, "&")
	u = strings.ReplaceAll(u, `\/`, "/")
	return u, nil
}

func parseCaptionsXML(data []byte) (string, error) {
	var tt timedTextXML
	if err := xml.Unmarshal(data, &tt); err != nil {
		return "", err
	}

	var parts []string
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Text))
		if text != "" {
			parts = append(parts, text)
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("captions XML empty")
	}
	return strings.Join(parts, " "), nil
}

// DownloadAudio downloads the best available audio-only stream for a YouTube URL.
func (s *YouTubeService) DownloadAudio(ctx context.Context, videoURL string) ([]byte, string, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, "", fmt.Errorf("no audio formats available")
	}

	best := formats[0]
	for _, f := range formats {
		if f.Bitrate > best.Bitrate {
			best = f
		}
	}

	stream, _, err := s.ytClient.GetStreamContext(ctx, video, &best)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio stream: %w", err)
	}
	defer stream.Close()

	const maxAudioBytes = 100 * 1024 * 1024 // 100MB safety cap
	limited := io.LimitReader(stream, maxAudioBytes+1)
	audioBytes, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio stream: %w", err)
	}
	if len(audioBytes) > maxAudioBytes {
		return nil, "", fmt.Errorf("audio stream exceeds %d MB limit", maxAudioBytes/(1024*1024))
	}

	mimeType := strings.TrimSpace(strings.Split(best.MimeType, ";")[0])
	if mimeType == "" {
		mimeType = "audio/mp4"
	}
	return audioBytes, mimeType, nil
}

// GetVideoMetadata looks up title, channel, duration and thumbnail.
func (s *YouTubeService) GetVideoMetadata(ctx context.Context, videoID string) (*models.YouTubeMetadata, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}
	return videoMetadata(videoID, video), nil
}

func videoMetadata(videoID string, video *yt.Video) *models.YouTubeMetadata {
	meta := &models.YouTubeMetadata{
		VideoID:      videoID,
		Title:        video.Title,
		ChannelName:  video.Author,
		Duration:     int(video.Duration.Seconds()),
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
	}

	var widest uint
	for _, thumb := range video.Thumbnails {
		if thumb.URL != "" && thumb.Width > widest {
			widest = thumb.Width
			meta.ThumbnailURL = thumb.URL
		}
	}
	return meta
}
