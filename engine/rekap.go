package engine

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type RekapSortKey string

const (
	SortByName      RekapSortKey = "name"
	SortByTotalCost RekapSortKey = "total_cost"
	SortByMargin    RekapSortKey = "margin"
	SortByUserPrice RekapSortKey = "user_price"
)

// ParseRekapSortKey accepts an empty string as SortByName.
func ParseRekapSortKey(s string) (RekapSortKey, error) {
	switch k := RekapSortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortByName, nil
	case SortByName, SortByTotalCost, SortByMargin, SortByUserPrice:
		return k, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// RekapInput is the per-product material for one rekap row. Err is set when
// the product could not be computed; the row is still projected.
type RekapInput struct {
	ProductID uint
	Name      string
	UserPrice Money
	Snapshot  CostSnapshot
	Profit    ProfitView
	Err       error
}

type RekapQuery struct {
	SortBy RekapSortKey
	Desc   bool
	Search string
}

type RekapRow struct {
	ProductID      uint   `json:"product_id"`
	Name           string `json:"name"`
	UserPrice      Money  `json:"user_price"`
	IngredientCost Money  `json:"ingredient_cost_total"`
	Overhead       Money  `json:"overhead"`
	Labor          Money  `json:"labor"`
	TotalCost      Money  `json:"total_cost"`
	ProfitPerUnit  Money  `json:"profit_per_unit"`
	MarginPct      *int64 `json:"margin_pct"`
	MarginLabel    string `json:"margin_label"`
	Error          string `json:"error,omitempty"`
}

// Project filters, folds and sorts per-product results into rekap rows.
// Equal sort keys fall back to an Indonesian, case-insensitive name order.
func Project(inputs []RekapInput, q RekapQuery) []RekapRow {
	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	rows := make([]RekapRow, 0, len(inputs))
	for _, in := range inputs {
		if needle != "" && !strings.Contains(fold.String(in.Name), needle) {
			continue
		}
		rows = append(rows, projectRow(in))
	}

	col := collate.New(language.Indonesian, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := compareKey(a, b, q.SortBy, q.Desc, col); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.ProductID < b.ProductID
	})
	return rows
}

func projectRow(in RekapInput) RekapRow {
	row := RekapRow{
		ProductID:   in.ProductID,
		Name:        in.Name,
		UserPrice:   in.UserPrice,
		MarginLabel: UndefinedMargin,
	}
	if in.Err != nil {
		row.Error = in.Err.Error()
		return row
	}
	row.IngredientCost = in.Snapshot.IngredientCost
	row.Overhead = in.Snapshot.Overhead
	row.Labor = in.Snapshot.Labor
	row.TotalCost = in.Snapshot.TotalCost
	row.ProfitPerUnit = in.Profit.ProfitPerUnit
	row.MarginPct = in.Profit.MarginPct
	row.MarginLabel = in.Profit.MarginLabel()
	return row
}

// compareKey orders by the primary key only. An undefined margin always sorts
// after defined margins, whatever the direction.
func compareKey(a, b RekapRow, key RekapSortKey, desc bool, col *collate.Collator) int {
	var c int
	switch key {
	case SortByTotalCost:
		c = compareMoney(a.TotalCost, b.TotalCost)
	case SortByUserPrice:
		c = compareMoney(a.UserPrice, b.UserPrice)
	case SortByMargin:
		switch {
		case a.MarginPct == nil && b.MarginPct == nil:
			return 0
		case a.MarginPct == nil:
			return 1
		case b.MarginPct == nil:
			return -1
		}
		c = compareMoney(Money(*a.MarginPct), Money(*b.MarginPct))
	default:
		c = col.CompareString(a.Name, b.Name)
	}
	if desc {
		return -c
	}
	return c
}

func compareMoney(a, b Money) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
