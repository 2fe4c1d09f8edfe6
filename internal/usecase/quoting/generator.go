// Package quoting drafts the first quote a matched provider sends back.
package quoting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"goalhk/internal/domain/entity"
	"goalhk/internal/domain/scenario"
)

type Generator struct {
	now func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// Generate builds a DRAFT quote whose line items depend only on the task
// category.
func (g *Generator) Generate(task *entity.Task, provider entity.Provider) *entity.Quote {
	items := itemsFor(task.Category)
	return &entity.Quote{
		ID:             "Q-" + uuid.NewString(),
		TaskID:         task.ID,
		ProviderID:     provider.ID,
		ProviderName:   provider.Name,
		ProviderAvatar: provider.Avatar,
		ProviderRating: provider.Rating,
		Items:          items,
		Total:          entity.SumItems(items),
		Status:         entity.QuoteDraft,
		CreatedAt:      g.now(),
	}
}

func itemsFor(category string) []entity.QuoteItem {
	switch category {
	case scenario.CategoryHomeRepair:
		return []entity.QuoteItem{
			item(1, "上門檢查費", 1, 200, entity.ItemFee),
			item(2, "維修人工", 1, 600, entity.ItemLabor),
			item(3, "止水膠帶/零件", 1, 150, entity.ItemMaterial),
		}
	case scenario.CategorySocial:
		return []entity.QuoteItem{
			item(1, "陪伴服務費 (小時)", 2, 150, entity.ItemLabor),
			item(2, "平台安全費", 1, 20, entity.ItemInsurance),
		}
	default:
		return []entity.QuoteItem{
			item(1, "基本服務費", 1, 100, entity.ItemLabor),
		}
	}
}

func item(n int, desc string, qty, price int, cat entity.ItemCategory) entity.QuoteItem {
	return entity.QuoteItem{
		ID:          fmt.Sprintf("i%d", n),
		Description: desc,
		Quantity:    qty,
		UnitPrice:   price,
		Category:    cat,
	}
}
