package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/techtalk/routinely/internal/constants"
)

// Item is a single routine entry. DaysOfWeek restricts the item to specific
// weekdays; empty means it is active every day.
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Icon        string         `json:"icon,omitempty"`
	Description string         `json:"description,omitempty"`
	DaysOfWeek  []time.Weekday `json:"days_of_week,omitempty"`
}

// ActiveOn reports whether the item is part of the checklist on the given
// weekday.
func (i Item) ActiveOn(day time.Weekday) bool {
	if len(i.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range i.DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// Catalog is an ordered set of routine items. The tracker core only asks it
// for active-item counts and id validity; content is presentation.
type Catalog struct {
	items []Item
}

func New(items []Item) *Catalog {
	return &Catalog{items: items}
}

// FromFile loads a custom catalog from a JSON file (an array of items).
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no items", path)
	}
	seen := make(map[string]bool)
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %q has no id", item.Name)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("duplicate catalog item id: %s", item.ID)
		}
		seen[item.ID] = true
	}
	return New(items), nil
}

// Items returns every catalog item in order, regardless of day restrictions.
func (c *Catalog) Items() []Item {
	return c.items
}

// ItemsFor returns the items active on the given date, in catalog order.
// An unparseable date yields only the unrestricted items.
func (c *Catalog) ItemsFor(date string) []Item {
	day, err := time.Parse(constants.DateFormat, date)
	var active []Item
	for _, item := range c.items {
		if err != nil {
			if len(item.DaysOfWeek) == 0 {
				active = append(active, item)
			}
			continue
		}
		if item.ActiveOn(day.Weekday()) {
			active = append(active, item)
		}
	}
	return active
}

// ActiveCount returns the number of items active on the given date. This is
// the completion-rate denominator for that date.
func (c *Catalog) ActiveCount(date string) int {
	return len(c.ItemsFor(date))
}

// Has reports whether the id names a catalog item at all.
func (c *Catalog) Has(itemID string) bool {
	for _, item := range c.items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// ActiveOn reports whether the item is part of the checklist on the given
// date.
func (c *Catalog) ActiveOn(itemID, date string) bool {
	for _, item := range c.ItemsFor(date) {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// Get returns the named item.
func (c *Catalog) Get(itemID string) (Item, bool) {
	for _, item := range c.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return Item{}, false
}
