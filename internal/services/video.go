package services

import (
	urlpkg "net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`(?:v=|\/v\/|youtu\.be\/|embed\/|shorts\/|live\/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID returns the 11 character video id of a YouTube URL, or ""
// when none can be found.
func ExtractVideoID(url string) string {
	url = strings.TrimSpace(url)
	parsed, err := urlpkg.Parse(url)
	if err == nil {
		host := strings.ToLower(parsed.Host)
		path := strings.Trim(parsed.Path, "/")

		// youtube.com/watch?v=VIDEO_ID
		if strings.Contains(host, "youtube.com") {
			if v := parsed.Query().Get("v"); len(v) == 11 {
				return v
			}

			parts := strings.Split(path, "/")
			if len(parts) >= 2 {
				switch parts[0] {
				case "shorts", "embed", "v", "live":
					if len(parts[1]) == 11 {
						return parts[1]
					}
				}
			}
		}

		// youtu.be/VIDEO_ID
		if strings.Contains(host, "youtu.be") {
			candidate := strings.Split(path, "/")[0]
			if len(candidate) == 11 {
				return candidate
			}
		}
	}

	// Fallback regex for unusual URL forms
	if m := videoIDPattern.FindStringSubmatch(url); len(m) > 1 {
		return m[1]
	}
	return ""
}

// ValidateYouTubeURL checks a user supplied URL and returns its video id.
func ValidateYouTubeURL(url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", &ValidationError{Fields: map[string]string{"url": "Please enter a YouTube URL"}}
	}

	lower := strings.ToLower(url)
	if !strings.Contains(lower, "youtube") && !strings.Contains(lower, "youtu.be") {
		return "", &ValidationError{Fields: map[string]string{"url": "Invalid YouTube URL"}}
	}

	id := ExtractVideoID(url)
	if id == "" {
		return "", &ValidationError{Fields: map[string]string{"url": "Could not extract video ID"}}
	}
	return id, nil
}
