package matching

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"goalhk/internal/domain/entity"
)

const (
	DefaultBasePrice = 100
	spread           = 0.005
)

var providerNames = [...]string{"David Chen", "Alan Fix", "Jenny Service"}

// Matcher produces nearby providers for the selected mode. Positions are
// offsets around the user's location.
type Matcher struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func New(rnd *rand.Rand) *Matcher {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Matcher{rnd: rnd, now: time.Now}
}

func (m *Matcher) Match(modes []entity.ServiceMode, modeID string) []entity.Provider {
	if len(modes) == 0 {
		return []entity.Provider{}
	}

	price := DefaultBasePrice
	for _, mode := range modes {
		if mode.ID == modeID {
			price = BasePrice(mode.EstimatedPrice)
			break
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stamp := m.now().UnixMilli()
	providers := make([]entity.Provider, len(providerNames))
	for i, name := range providerNames {
		typ := entity.ProviderIndividual
		if i == 2 {
			typ = entity.ProviderCompany
		}
		providers[i] = entity.Provider{
			ID:          fmt.Sprintf("p-%d-%d", stamp, i),
			Name:        name,
			Avatar:      fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d%.4f", i, m.rnd.Float64()),
			Profession:  "Pro",
			Type:        typ,
			Rating:      4.8,
			Distance:    "0.8km",
			Coordinates: entity.Coordinates{Lat: (m.rnd.Float64() - 0.5) * spread, Lng: (m.rnd.Float64() - 0.5) * spread},
			Badges:      []string{"Verified"},
			IsAvailable: true,
			BasePrice:   price,
		}
	}
	return providers
}

// BasePrice keeps only the digits of an estimated price label, so "$600-$800"
// reads as 600800. Labels without digits fall back to DefaultBasePrice.
func BasePrice(label string) int {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, label)
	if digits == "" {
		return DefaultBasePrice
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return DefaultBasePrice
	}
	return n
}
