package model

// Inventory maps each currency to a non-negative balance.
type Inventory map[ResourceType]int

// Cost is a partial currency -> amount mapping charged by a purchase.
type Cost map[ResourceType]int

// NewInventory returns an inventory with every known currency at zero.
func NewInventory() Inventory {
	inv := make(Inventory, len(ResourceTypes))
	for _, t := range ResourceTypes {
		inv[t] = 0
	}
	return inv
}

// Clone returns an independent copy that always carries every known currency.
func (inv Inventory) Clone() Inventory {
	out := NewInventory()
	for t, v := range inv {
		out[t] = v
	}
	return out
}

// Equal reports whether both inventories hold the same balance per currency.
// A missing currency counts as zero.
func (inv Inventory) Equal(other Inventory) bool {
	for t, v := range inv {
		if other[t] != v {
			return false
		}
	}
	for t, v := range other {
		if inv[t] != v {
			return false
		}
	}
	return true
}

// Credit returns a copy with r.Amount added to the r.Type balance.
// Non-positive amounts leave the balance unchanged.
func (inv Inventory) Credit(r ResourceInfo) Inventory {
	out := inv.Clone()
	if r.Amount > 0 && r.Type.Valid() {
		out[r.Type] += r.Amount
	}
	return out
}

// CanAfford reports whether every entry of c is covered by the balance.
func (inv Inventory) CanAfford(c Cost) bool {
	for t, amount := range c {
		if inv[t] < amount {
			return false
		}
	}
	return true
}

// Debit returns a copy with every entry of c subtracted, or ok=false and an
// unchanged copy when any entry is not affordable.
func (inv Inventory) Debit(c Cost) (out Inventory, ok bool) {
	out = inv.Clone()
	if !inv.CanAfford(c) {
		return out, false
	}
	for t, amount := range c {
		out[t] -= amount
	}
	return out, true
}
