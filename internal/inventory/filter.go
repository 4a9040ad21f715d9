package inventory

// Filter selects which chest slots are displayed. It never changes container
// contents or indices.
type Filter struct {
	Category Category `json:"category"`
	Rarity   Rarity   `json:"rarity"`
}

// DefaultFilter shows everything.
func DefaultFilter() Filter {
	return Filter{Category: AnyCategory, Rarity: AnyRarity}
}

// Active reports whether either selector narrows the view.
func (f Filter) Active() bool {
	return f.Category != AnyCategory || f.Rarity != AnyRarity
}

// Match reports whether a slot is shown. Empty slots are shown only while no
// selector is active.
func (f Filter) Match(it *Item) bool {
	if it == nil {
		return !f.Active()
	}

	categoryOK := f.Category == AnyCategory || it.Category == f.Category
	rarityOK := f.Rarity == AnyRarity || it.Rarity == f.Rarity

	return categoryOK && rarityOK
}

// ViewSlot is one displayed slot. Index and Slot always refer to the true
// container position, so a drop aimed at Slot lands where the user sees the
// item even while filtering hides other slots.
type ViewSlot struct {
	Index int    `json:"index"`
	Slot  string `json:"slot"`
	Item  *Item  `json:"item"`
}

// Apply returns the matching slots of c in container order.
func (f Filter) Apply(id ContainerID, c Container) []ViewSlot {
	out := make([]ViewSlot, 0, c.Len())

	for i, it := range c.slots {
		if !f.Match(it) {
			continue
		}

		out = append(out, ViewSlot{
			Index: i,
			Slot:  SlotRef{Container: id, Index: i}.String(),
			Item:  cloneItem(it),
		})
	}

	return out
}

// viewAll lists every slot of c, ignoring any filter.
func viewAll(id ContainerID, c Container) []ViewSlot {
	return DefaultFilter().Apply(id, c)
}
