package entity

type ServiceMode struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	EstimatedPrice string `json:"estimatedPrice"`
	EstimatedTime  string `json:"estimatedTime"`
	Icon           string `json:"icon"`
	IsBidding      bool   `json:"isBidding,omitempty"`
}
