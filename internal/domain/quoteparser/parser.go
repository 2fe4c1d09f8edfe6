// Package quoteparser turns a single line of quote-builder chat such as
// "新增 防水工程 $1500" into a priced quote item.
package quoteparser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"goalhk/internal/domain/entity"
	"goalhk/internal/domain/textnorm"
)

const (
	DefaultUnitPrice   = 500
	DefaultDescription = "新增項目"
)

var pricePattern = regexp.MustCompile(`\$(\d+)|(\d+)元`)

var (
	materialMarkers  = []string{"料", "件", "part"}
	insuranceMarkers = []string{"保", "險"}
)

// Parse extracts the first "$N" or "N元" amount as the unit price and strips
// it from the description. Amounts too large for int saturate at
// math.MaxInt. Lines without a price get DefaultUnitPrice.
func Parse(text string) entity.QuoteItem {
	text = textnorm.Fold(text)

	price := DefaultUnitPrice
	description := text
	if loc := pricePattern.FindStringSubmatchIndex(text); loc != nil {
		digits := submatch(text, loc, 1)
		if digits == "" {
			digits = submatch(text, loc, 2)
		}
		price = parseAmount(digits)
		description = text[:loc[0]] + text[loc[1]:]
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}

	return entity.QuoteItem{
		ID:          "qi-" + uuid.NewString(),
		Description: description,
		Quantity:    1,
		UnitPrice:   price,
		Category:    categorize(text),
	}
}

// categorize defaults to labour; insurance markers take precedence over
// material markers when both are present.
func categorize(text string) entity.ItemCategory {
	category := entity.ItemLabor
	if containsAny(text, materialMarkers) {
		category = entity.ItemMaterial
	}
	if containsAny(text, insuranceMarkers) {
		category = entity.ItemInsurance
	}
	return category
}

// parseAmount reads a run of ASCII digits. On overflow ParseInt returns the
// largest int alongside ErrRange, which is the value we keep.
func parseAmount(digits string) int {
	n, err := strconv.ParseInt(digits, 10, 0)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return DefaultUnitPrice
	}
	return int(n)
}

func submatch(s string, loc []int, group int) string {
	start, end := loc[2*group], loc[2*group+1]
	if start < 0 {
		return ""
	}
	return s[start:end]
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
