package inventory

// Default items, used on first run and after a reset.
var (
	sword  = Item{ID: "item1", Name: "Sword", Icon: "sword", Category: CategoryAttack, Rarity: RarityCommon, Stats: "+15 Damage"}
	shield = Item{ID: "item2", Name: "Shield", Icon: "shield", Category: CategoryDefense, Rarity: RarityUncommon, Stats: "+10 Defense"}
	potion = Item{ID: "item3", Name: "Potion", Icon: "potion", Category: CategoryOther, Rarity: RarityCommon, Stats: "Restores 50 HP"}
	helmet = Item{ID: "item4", Name: "Helmet", Icon: "knight", Category: CategoryDefense, Rarity: RarityRare, Stats: "+5 Defense"}
)

// DefaultBackpack returns the starting backpack: a sword in slot 0.
func DefaultBackpack() Container {
	c := NewContainer(BackpackCapacity)
	c.slots[0] = cloneItem(&sword)

	return c
}

// DefaultChest returns the starting chest: shield, potion and helmet in
// slots 0-2.
func DefaultChest() Container {
	c := NewContainer(ChestCapacity)
	c.slots[0] = cloneItem(&shield)
	c.slots[1] = cloneItem(&potion)
	c.slots[2] = cloneItem(&helmet)

	return c
}
