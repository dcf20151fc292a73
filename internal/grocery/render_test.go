package grocery

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"menu-bot/internal/recipe"
)

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		quantity float64
		unit     string
		want     string
	}{
		{2, "lb", "2 lb"},
		{1.5, "lb", "1.5 lb"},
		{2.5, "cup", "2.5 cup"},
		{3, "each", "3"},
		{3, "", "3"},
		{0, "", "to taste"},
		{0, "pinch", "pinch"},
		{1, "tbsp", "1 tbsp"},
	}
	for _, c := range cases {
		if got := FormatQuantity(c.quantity, c.unit); got != c.want {
			t.Errorf("FormatQuantity(%v, %q) = %q, want %q", c.quantity, c.unit, got, c.want)
		}
	}
}

func TestListByStoreIsStable(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	list := &List{
		WeekStart: "2026-09-07",
		Items: []Item{
			{Name: "onion", Quantity: 2, Unit: "each", Store: "trader_joes", Category: recipe.CategoryProduce},
			{Name: "garlic", Quantity: 1, Unit: "each", Store: "trader_joes", Category: recipe.CategoryProduce},
			{Name: "milk", Quantity: 1, Unit: "cup", Store: "meijer", Category: recipe.CategoryDairy},
		},
	}

	first := o.ListByStore(list)
	second := o.ListByStore(list)
	if !reflect.DeepEqual(first, second) {
		t.Error("ListByStore is not stable across calls")
	}

	tj := first["trader_joes"]
	if len(tj) != 2 || tj[0].Name != "garlic" || tj[1].Name != "onion" {
		t.Errorf("trader_joes group = %v, want garlic then onion", tj)
	}
}

func TestFormatAsText(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	list := &List{
		WeekStart: "2026-09-07",
		Items: []Item{
			{Name: "milk", Quantity: 1, Unit: "cup", Store: "meijer", Category: recipe.CategoryDairy},
			{Name: "garlic", Quantity: 3, Unit: "cloves", Store: "trader_joes", Category: recipe.CategoryProduce, Checked: true},
		},
	}

	text := o.FormatAsText(list)

	if !strings.Contains(text, "Week of 2026-09-07") {
		t.Errorf("missing week header:\n%s", text)
	}
	if !strings.Contains(text, "--- Trader Joe's (1 items) ---") {
		t.Errorf("missing store header:\n%s", text)
	}
	if !strings.Contains(text, "[x] garlic (3 cloves)") {
		t.Errorf("missing checked garlic line:\n%s", text)
	}
	if !strings.Contains(text, "[ ] milk (1 cup)") {
		t.Errorf("missing milk line:\n%s", text)
	}

	// Trader Joe's is declared before Meijer, so it renders first.
	if strings.Index(text, "Trader Joe's") > strings.Index(text, "Meijer") {
		t.Errorf("stores out of declaration order:\n%s", text)
	}
}

func TestUpdateItemStore(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	list := &List{Items: []Item{
		{Name: "ground beef", Store: "costco"},
		{Name: "milk", Store: "meijer"},
	}}

	o.UpdateItemStore(list, "Ground Beef", "meijer")
	if list.Items[0].Store != "meijer" {
		t.Errorf("store = %s, want meijer", list.Items[0].Store)
	}

	// A miss leaves the list untouched.
	o.UpdateItemStore(list, "anchovies", "costco")
	for _, item := range list.Items {
		if item.Store == "costco" {
			t.Errorf("unexpected store change: %v", item)
		}
	}
}

func TestSummarize(t *testing.T) {
	o := NewOptimizer(testConfig(), zap.NewNop())

	list := &List{Items: []Item{
		{Name: "onion", Store: "trader_joes", Category: recipe.CategoryProduce},
		{Name: "cheddar", Store: "trader_joes", Category: recipe.CategoryCheese},
		{Name: "milk", Store: "meijer", Category: recipe.CategoryDairy},
	}}

	summaries := o.Summarize(list)
	tj := summaries["trader_joes"]
	if tj.ItemCount != 2 {
		t.Errorf("trader_joes item count = %d, want 2", tj.ItemCount)
	}
	if !reflect.DeepEqual(tj.Categories, []string{"cheese", "produce"}) {
		t.Errorf("trader_joes categories = %v", tj.Categories)
	}
	if tj.Name != "Trader Joe's" {
		t.Errorf("store name = %s", tj.Name)
	}
}
