package catalog

import "goalhk/internal/domain/entity"

var suggestions = []entity.Suggestion{
	{ID: "s1", Label: "💦 爆水管 (Burst Pipe)", Query: "爆水管"},
	{ID: "s2", Label: "🏠 全屋裝修 (Renovation)", Query: "我想全屋裝修"},
	{ID: "s3", Label: "🥾 找人行山 (Hiking)", Query: "找人行山"},
	{ID: "s4", Label: "🏥 陪診 (Doctor)", Query: "陪看醫生"},
	{ID: "s5", Label: "🍱 找飯腳 (Eat)", Query: "找人食飯"},
}

var feed = []entity.FeedItem{
	{ID: "f1", Text: "🔔 Mrs. Wong (Mong Kok) just posted: Emergency Pipe Fix ($800)", JobID: "j1"},
	{ID: "f2", Text: "🏔️ David (Sai Kung) is looking for Hiking Buddy (Free)", JobID: "j2"},
	{ID: "f3", Text: "🚗 Jason requested Airport Transfer ($350)", JobID: "j1"},
	{ID: "f4", Text: "🥘 Sarah needs a Cooking Helper for Party ($1200)", JobID: "j1"},
	{ID: "f5", Text: "💻 Alex is looking for Wifi Repair ($400)", JobID: "j1"},
}

type Catalog struct{}

func New() *Catalog {
	return &Catalog{}
}

// Suggestions are the quick-start queries offered under the search box.
func (c *Catalog) Suggestions() []entity.Suggestion {
	return append([]entity.Suggestion(nil), suggestions...)
}

// Feed is the community ticker; each item links to a job board post.
func (c *Catalog) Feed() []entity.FeedItem {
	return append([]entity.FeedItem(nil), feed...)
}
