package table

import (
	"fmt"

	"github.com/okian/ukestate/internal/domain/types"
)

// Column names produced by the fixed query templates.
const (
	ColYear     = "year"
	ColMonth    = "month"
	ColNumSales = "num_sales"
	ColTown     = "town"
	ColDistrict = "district"
	ColCount    = "c"
	ColPrice    = "price"
)

// MonthlySales converts a year/month/num_sales result, keeping row order.
func MonthlySales(r Result) ([]types.MonthlySalesPoint, error) {
	idx, err := r.columns(ColYear, ColMonth, ColNumSales)
	if err != nil {
		return nil, err
	}
	out := make([]types.MonthlySalesPoint, 0, len(r.Rows))
	for i, row := range r.Rows {
		year, err := asInt64(row[idx[0]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColYear, err)
		}
		month, err := asInt64(row[idx[1]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColMonth, err)
		}
		n, err := asInt64(row[idx[2]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColNumSales, err)
		}
		p, err := types.NewMonthlySalesPoint(int(year), int(month), n)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// Neighborhoods converts a town/district/c/price result, keeping row order.
func Neighborhoods(r Result) ([]types.NeighborhoodPriceSummary, error) {
	idx, err := r.columns(ColTown, ColDistrict, ColCount, ColPrice)
	if err != nil {
		return nil, err
	}
	out := make([]types.NeighborhoodPriceSummary, 0, len(r.Rows))
	for i, row := range r.Rows {
		town, err := asString(row[idx[0]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColTown, err)
		}
		district, err := asString(row[idx[1]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColDistrict, err)
		}
		c, err := asInt64(row[idx[2]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColCount, err)
		}
		price, err := asFloat64(row[idx[3]])
		if err != nil {
			return nil, fmt.Errorf("row %d %s: %w", i, ColPrice, err)
		}
		out = append(out, types.NeighborhoodPriceSummary{Town: town, District: district, Count: c, Price: price})
	}
	return out, nil
}
