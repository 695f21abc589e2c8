// Package menu derives the category list of a restaurant's products and
// filters products by the selected category.
package menu

import (
	"slices"
	"strings"

	"armenu-api/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FallbackCategory replaces an empty product category
const FallbackCategory = "Otros"

// DefaultPreference is the display order of well-known categories
var DefaultPreference = []string{"Entrantes", "Platos principales", "Ensaladas", "Postres", "Bebidas", "Otros"}

// EffectiveCategory is the product's category with the fallback applied
func EffectiveCategory(p models.Product) string {
	if p.Category == "" {
		return FallbackCategory
	}
	return p.Category
}

// Router orders categories by a preference list. Labels missing from the list
// go after all listed ones, in locale-aware alphabetical order.
type Router struct {
	rank map[string]int
	lang language.Tag
}

func NewRouter(preference []string, lang language.Tag) *Router {
	rank := make(map[string]int, len(preference))
	for i, c := range preference {
		if _, dup := rank[c]; !dup {
			rank[c] = i
		}
	}
	return &Router{rank: rank, lang: lang}
}

var defaultRouter = NewRouter(DefaultPreference, language.Spanish)

// DeriveCategories returns the distinct effective categories of products, ordered.
func (r *Router) DeriveCategories(products []models.Product) []string {
	seen := make(map[string]struct{}, len(products))
	categories := make([]string, 0)
	for _, p := range products {
		c := EffectiveCategory(p)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}

	// collators keep internal buffers, one per call
	col := collate.New(r.lang)
	slices.SortFunc(categories, func(a, b string) int {
		ia, okA := r.rank[a]
		ib, okB := r.rank[b]
		switch {
		case okA && okB:
			return ia - ib
		case okA:
			return -1
		case okB:
			return 1
		}
		if c := col.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return categories
}

// SelectDefaultCategory returns the first category, or false when there is none.
func SelectDefaultCategory(categories []string) (string, bool) {
	if len(categories) == 0 {
		return "", false
	}
	return categories[0], true
}

// FilterByCategory returns the products whose effective category equals selected.
// With zero or one category nothing is filtered. The input is never modified.
func FilterByCategory(products []models.Product, categories []string, selected string) []models.Product {
	if len(categories) <= 1 {
		return slices.Clone(products)
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if EffectiveCategory(p) == selected {
			out = append(out, p)
		}
	}
	return out
}

// DeriveCategories orders categories with DefaultPreference
func DeriveCategories(products []models.Product) []string {
	return defaultRouter.DeriveCategories(products)
}
