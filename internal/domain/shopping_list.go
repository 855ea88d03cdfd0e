package domain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ShoppingListHeader is the first line of a rendered shopping list.
const ShoppingListHeader = "Shopping list:"

// IngredientLine is one ingredient usage inside a cart recipe.
type IngredientLine struct {
	Name   string
	Unit   string
	Amount int
}

// ShoppingItem is the summed amount of one (name, unit) group.
type ShoppingItem struct {
	Name   string
	Unit   string
	Amount int
}

// ShoppingList is the aggregated cart, ordered by name then unit.
type ShoppingList struct {
	Items []ShoppingItem
}

// BuildShoppingList groups lines by (name, unit) and sums the amounts.
func BuildShoppingList(lines []IngredientLine) ShoppingList {
	type key struct{ name, unit string }

	totals := make(map[key]int, len(lines))
	for _, l := range lines {
		totals[key{l.Name, l.Unit}] += l.Amount
	}

	items := make([]ShoppingItem, 0, len(totals))
	for k, amount := range totals {
		items = append(items, ShoppingItem{Name: k.name, Unit: k.unit, Amount: amount})
	}

	slices.SortFunc(items, func(a, b ShoppingItem) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Unit, b.Unit))
	})

	return ShoppingList{Items: items}
}

// Render formats the list as newline-terminated plain text.
func (l ShoppingList) Render() string {
	var b strings.Builder

	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')

	for _, item := range l.Items {
		fmt.Fprintf(&b, "- %s (%s): %d\n", item.Name, item.Unit, item.Amount)
	}

	return b.String()
}
