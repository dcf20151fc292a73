package grocery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ListByStore groups a list's items by store, each group sorted by
// category then name. Calling it twice without mutation returns
// identical groupings.
func (o *Optimizer) ListByStore(list *List) map[string][]Item {
	byStore := make(map[string][]Item)
	for _, item := range list.Items {
		byStore[item.Store] = append(byStore[item.Store], item)
	}
	for store := range byStore {
		items := byStore[store]
		sort.Slice(items, func(i, j int) bool {
			if items[i].Category != items[j].Category {
				return items[i].Category < items[j].Category
			}
			return items[i].Name < items[j].Name
		})
	}
	return byStore
}

// StoreSummary summarizes one store's share of the list.
type StoreSummary struct {
	Name       string
	ItemCount  int
	Categories []string
}

// Summarize returns per-store item counts and category sets.
func (o *Optimizer) Summarize(list *List) map[string]StoreSummary {
	byStore := o.ListByStore(list)
	summaries := make(map[string]StoreSummary, len(byStore))

	for storeID, items := range byStore {
		catSet := make(map[string]bool)
		for _, item := range items {
			catSet[string(item.Category)] = true
		}
		categories := make([]string, 0, len(catSet))
		for cat := range catSet {
			categories = append(categories, cat)
		}
		sort.Strings(categories)

		summaries[storeID] = StoreSummary{
			Name:       o.cfg.StoreName(storeID),
			ItemCount:  len(items),
			Categories: categories,
		}
	}
	return summaries
}

// FormatAsText renders the list as deterministic, store-ordered plain
// text with a checked marker per item.
func (o *Optimizer) FormatAsText(list *List) string {
	byStore := o.ListByStore(list)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Grocery List - Week of %s\n\n", list.WeekStart)

	for _, store := range o.cfg.Stores {
		items, ok := byStore[store.ID]
		if !ok {
			continue
		}

		fmt.Fprintf(&sb, "--- %s (%d items) ---\n", o.cfg.StoreName(store.ID), len(items))
		for _, item := range items {
			check := "[ ]"
			if item.Checked {
				check = "[x]"
			}
			fmt.Fprintf(&sb, "%s %s (%s)\n", check, item.Name, FormatQuantity(item.Quantity, item.Unit))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatQuantity renders a quantity/unit pair for display. Zero renders
// as the unit alone ("to taste" when the unit is empty too); integral
// quantities drop the decimal; the "each" placeholder unit is
// suppressed.
func FormatQuantity(quantity float64, unit string) string {
	if quantity == 0 {
		if unit == "" {
			return "to taste"
		}
		return unit
	}

	var qty string
	if quantity == float64(int64(quantity)) {
		qty = strconv.FormatInt(int64(quantity), 10)
	} else {
		qty = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", quantity), "0"), ".")
	}

	if unit != "" && unit != "each" {
		return qty + " " + unit
	}
	return qty
}

// UpdateItemStore manually overrides an item's store assignment,
// matching by case-insensitive name. Only the first match is changed; a
// miss leaves the list untouched.
func (o *Optimizer) UpdateItemStore(list *List, itemName, newStore string) *List {
	target := strings.ToLower(itemName)
	for i := range list.Items {
		if strings.ToLower(list.Items[i].Name) == target {
			list.Items[i].Store = newStore
			break
		}
	}
	return list
}
