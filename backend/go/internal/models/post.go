package models

// Post 是一条社交媒体帖子。
type Post struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}
