// Package inventory holds the backpack and storage chest, the category/rarity
// filter over the chest, and the drag reconciliation that moves items between
// slots.
//
// All state is owned by a [Store]. Front ends (CLI, shell, HTTP server) never
// touch containers directly; they go through the store's setters or a
// [Session] that turns drag gestures into store mutations.
package inventory

import (
	"fmt"
	"strings"
)

// Category groups items for filtering.
type Category string

// Item categories.
const (
	CategoryAttack  Category = "Attack"
	CategoryDefense Category = "Defense"
	CategoryOther   Category = "Other"
)

// Rarity grades items for filtering.
type Rarity string

// Item rarities.
const (
	RarityCommon   Rarity = "Common"
	RarityUncommon Rarity = "Uncommon"
	RarityRare     Rarity = "Rare"
)

// All is the selector value that disables one filter dimension.
const All = "All"

// AnyCategory and AnyRarity are the "no filter" selectors.
const (
	AnyCategory Category = All
	AnyRarity   Rarity   = All
)

var (
	categories = []Category{CategoryAttack, CategoryDefense, CategoryOther}
	rarities   = []Rarity{RarityCommon, RarityUncommon, RarityRare}
)

// Categories returns the concrete categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Rarities returns the concrete rarities in display order.
func Rarities() []Rarity {
	return append([]Rarity(nil), rarities...)
}

// Valid reports whether c is one of the concrete categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}

	return false
}

// Valid reports whether r is one of the concrete rarities.
func (r Rarity) Valid() bool {
	for _, known := range rarities {
		if r == known {
			return true
		}
	}

	return false
}

// ParseCategorySelector parses a filter selector: "All" or a concrete category.
// Matching is case-insensitive; the result is canonical.
func ParseCategorySelector(s string) (Category, error) {
	if strings.EqualFold(s, All) {
		return AnyCategory, nil
	}

	for _, known := range categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// ParseRaritySelector parses a filter selector: "All" or a concrete rarity.
func ParseRaritySelector(s string) (Rarity, error) {
	if strings.EqualFold(s, All) {
		return AnyRarity, nil
	}

	for _, known := range rarities {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidRarity, s)
}

// Item is an immutable inventory record. Items are moved between slots or
// removed, never edited.
type Item struct {
	ID       string   `json:"id" jsonschema:"title=Item id,description=Globally unique and stable for the item's lifetime,minLength=1"`
	Name     string   `json:"name" jsonschema:"description=Display name"`
	Icon     string   `json:"icon" jsonschema:"description=Icon reference resolved by the icon resolver"`
	Category Category `json:"category" jsonschema:"enum=Attack,enum=Defense,enum=Other"`
	Rarity   Rarity   `json:"rarity" jsonschema:"enum=Common,enum=Uncommon,enum=Rare"`
	Stats    string   `json:"stats" jsonschema:"description=Free-text stat line"`
}

// Validate checks the fields a stored item must have.
func (it Item) Validate() error {
	if it.ID == "" {
		return ErrItemIDEmpty
	}

	if !it.Category.Valid() {
		return fmt.Errorf("item %s: %w: %q", it.ID, ErrInvalidCategory, it.Category)
	}

	if !it.Rarity.Valid() {
		return fmt.Errorf("item %s: %w: %q", it.ID, ErrInvalidRarity, it.Rarity)
	}

	return nil
}

func (it Item) String() string {
	return fmt.Sprintf("%s (%s)", it.Name, it.ID)
}

func cloneItem(it *Item) *Item {
	if it == nil {
		return nil
	}

	c := *it

	return &c
}
