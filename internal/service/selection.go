package service

import (
	"github.com/bixmobil/vest/internal/constants"
)

// DenominationSelection maps a face value to the number of cards to
// print. A missing key means quantity zero.
type DenominationSelection map[int64]int

// UpdateQuantity returns a copy of the selection with the quantity of
// one denomination adjusted by delta. Quantities clamp at zero and a
// zero quantity removes the entry, so decrementing an absent
// denomination is a no-op.
func (s DenominationSelection) UpdateQuantity(denomination int64, delta int) DenominationSelection {
	next := make(DenominationSelection, len(s)+1)
	for d, q := range s {
		next[d] = q
	}
	quantity := next[denomination] + delta
	if quantity <= 0 {
		delete(next, denomination)
		return next
	}
	next[denomination] = quantity
	return next
}

// Quantity returns the quantity for one denomination.
func (s DenominationSelection) Quantity(denomination int64) int {
	return s[denomination]
}

// TotalCards returns the number of cards the selection would print.
func (s DenominationSelection) TotalCards() int {
	total := 0
	for _, q := range s {
		total += q
	}
	return total
}

// TotalValue returns the summed face value in NGN.
func (s DenominationSelection) TotalValue() int64 {
	var total int64
	for d, q := range s {
		total += d * int64(q)
	}
	return total
}

// IsEmpty reports whether no cards are selected.
func (s DenominationSelection) IsEmpty() bool {
	return s.TotalCards() == 0
}

// Validate checks that every entry uses a printable denomination and a
// positive quantity.
func (s DenominationSelection) Validate() error {
	for d, q := range s {
		if !constants.IsValidDenomination(d) {
			return ErrSelectionInvalid
		}
		if q <= 0 {
			return ErrSelectionInvalid
		}
	}
	return nil
}
