package models

type CreateSessionRequest struct {
	URL string `json:"url"`
}

type YouTubeMetadata struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelName  string `json:"channel_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     int    `json:"duration_seconds"`
	WordCount    int    `json:"word_count,omitempty"`
}
