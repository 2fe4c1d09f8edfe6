package quoting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goalhk/internal/domain/entity"
)

var provider = entity.Provider{ID: "p-1", Name: "David Chen", Rating: 4.8}

func TestGenerate_HomeRepair(t *testing.T) {
	q := New().Generate(&entity.Task{ID: "T-1", Category: "HOME_REPAIR"}, provider)

	require.Len(t, q.Items, 3)
	assert.Equal(t, 950, q.Total)
	assert.Equal(t, entity.ItemFee, q.Items[0].Category)
	assert.Equal(t, entity.ItemMaterial, q.Items[2].Category)
	assert.Equal(t, entity.QuoteDraft, q.Status)
	assert.Equal(t, "T-1", q.TaskID)
	assert.Equal(t, "David Chen", q.ProviderName)
	assert.True(t, strings.HasPrefix(q.ID, "Q-"))
}

func TestGenerate_Social(t *testing.T) {
	q := New().Generate(&entity.Task{Category: "SOCIAL"}, provider)

	require.Len(t, q.Items, 2)
	assert.Equal(t, 2, q.Items[0].Quantity)
	assert.Equal(t, entity.ItemInsurance, q.Items[1].Category)
	assert.Equal(t, 320, q.Total)
}

func TestGenerate_Default(t *testing.T) {
	for _, cat := range []string{"CARE", "CONSTRUCTION", "GENERAL", ""} {
		q := New().Generate(&entity.Task{Category: cat}, provider)
		require.Len(t, q.Items, 1, cat)
		assert.Equal(t, 100, q.Total, cat)
	}
}

func TestGenerate_UniqueIDs(t *testing.T) {
	g := New()
	a := g.Generate(&entity.Task{}, provider)
	b := g.Generate(&entity.Task{}, provider)
	assert.NotEqual(t, a.ID, b.ID)
}
