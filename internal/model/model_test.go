package model

import "testing"

func TestInventoryDebitAllOrNothing(t *testing.T) {
	inv := Inventory{Gold: 150, Materials: 5}
	out, ok := inv.Debit(Cost{Gold: 100, Materials: 10})
	if ok {
		t.Fatalf("debit should fail when materials are short")
	}
	if !out.Equal(inv) {
		t.Fatalf("rejected debit changed balances: %v", out)
	}

	out, ok = inv.Debit(Cost{Gold: 100})
	if !ok {
		t.Fatalf("debit should succeed")
	}
	if out[Gold] != 50 || out[Materials] != 5 {
		t.Fatalf("unexpected balances after debit: %v", out)
	}
	if inv[Gold] != 150 {
		t.Fatalf("debit mutated the receiver: %v", inv)
	}
}

func TestInventoryCredit(t *testing.T) {
	inv := Inventory{Gold: 10}
	out := inv.Credit(ResourceInfo{Type: Gold, Amount: 42, Rarity: Rare})
	if out[Gold] != 52 || out[Materials] != 0 {
		t.Fatalf("got %v", out)
	}
	if inv[Gold] != 10 {
		t.Fatalf("credit mutated the receiver")
	}
	if got := inv.Credit(ResourceInfo{Type: Gold, Amount: -3}); got[Gold] != 10 {
		t.Fatalf("negative credit must be ignored, got %v", got)
	}
}

func TestInventoryEqualTreatsMissingAsZero(t *testing.T) {
	if !(Inventory{Gold: 3}).Equal(Inventory{Gold: 3, Materials: 0}) {
		t.Fatalf("missing currency should compare as zero")
	}
	if (Inventory{Gold: 3}).Equal(Inventory{Gold: 4}) {
		t.Fatalf("different balances compared equal")
	}
}

func TestRarityOrderAndNames(t *testing.T) {
	for i := 1; i < len(Rarities); i++ {
		if Rarities[i-1] >= Rarities[i] {
			t.Fatalf("rarities not ascending at %d", i)
		}
	}
	if UltraRare.String() != "ULTRA_RARE" || Rarity(9).Valid() {
		t.Fatalf("unexpected rarity naming/validation")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Fatalf("clamp out of range")
	}
}
