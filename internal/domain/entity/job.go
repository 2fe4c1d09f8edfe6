package entity

import "time"

type JobCategory string

const (
	JobHomeRepair JobCategory = "HOME_REPAIR"
	JobSocial     JobCategory = "SOCIAL"
	JobCare       JobCategory = "CARE"
	JobEvent      JobCategory = "EVENT"
	JobOther      JobCategory = "OTHER"
)

func (c JobCategory) Valid() bool {
	switch c {
	case JobHomeRepair, JobSocial, JobCare, JobEvent, JobOther:
		return true
	}
	return false
}

const JobStatusLive = "live"

type JobItem struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Category         JobCategory `json:"category"`
	Location         string      `json:"location"`
	Budget           int         `json:"budget"`
	IsBiddingAllowed bool        `json:"isBiddingAllowed"`
	PostedTime       string      `json:"postedTime"`
	Distance         string      `json:"distance"`
	RequesterName    string      `json:"requesterName"`
	RequesterRating  float64     `json:"requesterRating"`
	Status           string      `json:"status"`
	CreatedAt        time.Time   `json:"createdAt"`
}
