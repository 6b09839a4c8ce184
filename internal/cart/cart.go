// Package cart holds the cart mutation and rental pricing rules.
// State lives in the session repository; these functions are pure so
// they stay independent of the storage medium.
package cart

import (
	"farmrent/internal/models"
)

// Add merges the item into the cart. Entries are keyed by item id:
// re-adding an existing item increments its quantity instead of
// creating a duplicate line.
func Add(items []models.CartItem, item models.CartItem) []models.CartItem {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	for i := range items {
		if items[i].Item.ID == item.Item.ID {
			items[i].Quantity += item.Quantity
			return items
		}
	}
	return append(items, item)
}

// Remove deletes the entry for the given item id, if present.
func Remove(items []models.CartItem, itemID int64) []models.CartItem {
	out := items[:0]
	for _, it := range items {
		if it.Item.ID != itemID {
			out = append(out, it)
		}
	}
	return out
}

// Update is a partial in-place edit of a cart entry; nil fields are
// left untouched.
type Update struct {
	Quantity  *int
	StartDate *string
	EndDate   *string
}

// Apply updates the entry for itemID and reports whether it was found.
func Apply(items []models.CartItem, itemID int64, u Update) bool {
	for i := range items {
		if items[i].Item.ID != itemID {
			continue
		}
		if u.Quantity != nil && *u.Quantity > 0 {
			items[i].Quantity = *u.Quantity
		}
		if u.StartDate != nil {
			items[i].StartDate = *u.StartDate
		}
		if u.EndDate != nil {
			items[i].EndDate = *u.EndDate
		}
		return true
	}
	return false
}
