package entity

type Suggestion struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Query string `json:"query"`
}

type FeedItem struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	JobID string `json:"jobId"`
}
