// Package types contains the response shapes and value types shared by the
// API, the application service and the dashboard.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Dataset coverage and neighborhood ranking constants.
const (
	FirstYear = 1995
	LastYear  = 2023

	// MinNeighborhoodSales is the HAVING threshold for a (town, district) group.
	MinNeighborhoodSales = 100
	// TopNeighborhoodsLimit caps the neighborhoods response.
	TopNeighborhoodsLimit = 10
)

// Sentinel errors for year parsing.
var (
	ErrMissingYear = errors.New("missing required query parameter: date")
	ErrInvalidYear = errors.New("invalid date: must be a four-digit year")
	ErrInvalidDate = errors.New("invalid year or month")
)

var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// Year is a calendar year accepted by the neighborhoods query.
type Year int

// ParseYear accepts exactly four ASCII digits.
func ParseYear(raw string) (Year, error) {
	if raw == "" {
		return 0, ErrMissingYear
	}
	if !yearPattern.MatchString(raw) {
		return 0, ErrInvalidYear
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidYear
	}
	return Year(n), nil
}

// String formats the year with four digits.
func (y Year) String() string { return fmt.Sprintf("%04d", int(y)) }

// Range returns the inclusive first and last calendar day of the year.
func (y Year) Range() (from, to string) {
	return y.String() + "-01-01", y.String() + "-12-31"
}

// Years lists the dataset years in ascending order.
func Years() []Year {
	out := make([]Year, 0, LastYear-FirstYear+1)
	for y := FirstYear; y <= LastYear; y++ {
		out = append(out, Year(y))
	}
	return out
}

// MonthlySalesPoint is one (year, month) bucket of /sales-per-month.
type MonthlySalesPoint struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Date     string `json:"date"`
	NumSales int64  `json:"num_sales"`
}

// NewMonthlySalesPoint builds a point and derives Date as the first of the month.
func NewMonthlySalesPoint(year, month int, numSales int64) (MonthlySalesPoint, error) {
	date, err := MonthStart(year, month)
	if err != nil {
		return MonthlySalesPoint{}, err
	}
	return MonthlySalesPoint{Year: year, Month: month, Date: date, NumSales: numSales}, nil
}

// MonthStart formats the first day of the month as YYYY-MM-DD.
func MonthStart(year, month int) (string, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return "", fmt.Errorf("%w: %d-%d", ErrInvalidDate, year, month)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly), nil
}

// NeighborhoodPriceSummary is one entry of /top-expensive-neighborhoods.
type NeighborhoodPriceSummary struct {
	Town     string  `json:"town"`
	District string  `json:"district"`
	Count    int64   `json:"c"`
	Price    float64 `json:"price"`
}

// Label is the "town - district" caption used on charts.
func (n NeighborhoodPriceSummary) Label() string {
	return n.Town + " - " + n.District
}

// Transaction is a single price-paid record as stored by the Query Service.
type Transaction struct {
	Date     time.Time
	Price    int64
	Town     string
	District string
	County   string
}
