package engine

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Ingredient is the read-only view of a bahan as the engine sees it.
type Ingredient struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Unit      string  `json:"unit"`
}

// BomLine is one komposisi row with the ingredient unit price already resolved.
// Qty and UnitPrice must be expressed in the same unit; nothing is converted.
type BomLine struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	UnitPrice    float64 `json:"unit_price"`
	Qty          float64 `json:"qty"`
	Unit         string  `json:"unit"`
}

// LineCost is the rounded cost of a single BOM line.
type LineCost struct {
	IngredientID uint    `json:"ingredient_id"`
	Name         string  `json:"name"`
	Qty          float64 `json:"qty"`
	Unit         string  `json:"unit"`
	Cost         Money   `json:"cost"`
}

// CostSnapshot is a derived, disposable HPP view. Recompute it, do not store it.
type CostSnapshot struct {
	IngredientCost Money      `json:"ingredient_cost_total"`
	Overhead       Money      `json:"overhead"`
	Labor          Money      `json:"labor"`
	TotalCost      Money      `json:"total_cost"`
	Lines          []LineCost `json:"lines"`
}

// Aggregate sums BOM line costs plus the overhead and labor allocations.
//
// Each line is rounded half-up on its own before summing. Negative values are
// treated as zero; NaN, infinite inputs and amounts above MaxMoney produce an
// error.
func Aggregate(lines []BomLine, overhead, labor float64) (CostSnapshot, error) {
	snap := CostSnapshot{Lines: make([]LineCost, 0, len(lines))}

	for i, line := range lines {
		price, err := finite(fmt.Sprintf("lines[%d].unit_price", i), line.UnitPrice)
		if err != nil {
			return CostSnapshot{}, err
		}
		qty, err := finite(fmt.Sprintf("lines[%d].qty", i), line.Qty)
		if err != nil {
			return CostSnapshot{}, err
		}

		cost, err := checkedMoney(fmt.Sprintf("lines[%d]", i), price.Mul(qty))
		if err != nil {
			return CostSnapshot{}, err
		}
		snap.IngredientCost += cost
		if snap.IngredientCost > MaxMoney {
			return CostSnapshot{}, fmt.Errorf("%w: ingredient_cost_total exceeds %d", ErrInvalidNumericInput, MaxMoney)
		}
		snap.Lines = append(snap.Lines, LineCost{
			IngredientID: line.IngredientID,
			Name:         line.Name,
			Qty:          line.Qty,
			Unit:         line.Unit,
			Cost:         cost,
		})
	}

	oh, err := finite("overhead", overhead)
	if err != nil {
		return CostSnapshot{}, err
	}
	lb, err := finite("labor", labor)
	if err != nil {
		return CostSnapshot{}, err
	}
	if snap.Overhead, err = checkedMoney("overhead", oh); err != nil {
		return CostSnapshot{}, err
	}
	if snap.Labor, err = checkedMoney("labor", lb); err != nil {
		return CostSnapshot{}, err
	}
	snap.TotalCost = snap.IngredientCost + snap.Overhead + snap.Labor
	if snap.TotalCost > MaxMoney {
		return CostSnapshot{}, fmt.Errorf("%w: total_cost exceeds %d", ErrInvalidNumericInput, MaxMoney)
	}

	return snap, nil
}

// UnitPrice derives the per-unit ingredient price from a purchase.
// A non-positive purchase quantity yields zero.
func UnitPrice(purchasePrice, purchaseQty float64) float64 {
	if !(purchaseQty > 0) || !(purchasePrice > 0) || math.IsInf(purchasePrice, 0) || math.IsInf(purchaseQty, 0) {
		return 0
	}
	return decimal.NewFromFloat(purchasePrice).
		DivRound(decimal.NewFromFloat(purchaseQty), 6).
		InexactFloat64()
}
