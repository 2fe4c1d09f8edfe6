package entity

type ProviderType string

const (
	ProviderIndividual ProviderType = "INDIVIDUAL"
	ProviderCompany    ProviderType = "COMPANY"
	ProviderAIAgent    ProviderType = "AI_AGENT"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Provider struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Avatar      string       `json:"avatar"`
	Profession  string       `json:"profession"`
	Type        ProviderType `json:"type"`
	Rating      float64      `json:"rating"`
	Distance    string       `json:"distance"`
	Coordinates Coordinates  `json:"coordinates"`
	Badges      []string     `json:"badges"`
	IsAvailable bool         `json:"isAvailable"`
	BasePrice   int          `json:"basePrice"`
}

func (p Provider) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
