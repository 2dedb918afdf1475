// Package views derives the category grouping and the purchase
// calendar from the state caches. Views are recomputed fully on each
// render and never hold data of their own.
package views

import (
	"errors"
	"sort"

	"pantry/internal/category"
	"pantry/internal/core"
)

// ErrNoProducts signals an empty inventory so the caller can render a
// dedicated empty state instead of zero tiles.
var ErrNoProducts = errors.New("no products")

// CategoryGroup is one tile: a canonical category with its members in
// insertion order.
type CategoryGroup struct {
	Name     string
	Icon     string
	Products []core.Product
}

// GroupByCategory partitions the products by canonical category name.
// Every product lands in exactly one group; groups are sorted by
// display name in plain string order.
func GroupByCategory(products []core.Product) ([]CategoryGroup, error) {
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	index := make(map[string]int)
	groups := make([]CategoryGroup, 0)
	for _, p := range products {
		name, icon := category.Canonicalize(p.Category)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, CategoryGroup{Name: name, Icon: icon})
		}
		groups[i].Products = append(groups[i].Products, p)
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}
