// Package fixtures generates synthetic price-paid transactions for local
// runs against the embedded SQLite Query Service.
package fixtures

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/pkg/logger"
)

// Generation defaults.
const (
	DefaultSeed          = 20230101
	DefaultSalesPerShare = 2

	annualGrowth = 0.065
	jitterMin    = 0.7
	jitterRange  = 0.6
	maxDay       = 28
	monthsInYear = 12
)

// Neighborhood is one (town, district) the generator sells in. Shares sets
// its relative monthly volume and BasePrice its 1995 average.
type Neighborhood struct {
	Town      string
	District  string
	County    string
	BasePrice float64
	Shares    int
}

// Neighborhoods is the default catalogue. Low-share entries stay under the
// yearly sales threshold on purpose.
var Neighborhoods = []Neighborhood{
	{Town: "LONDON", District: "KENSINGTON AND CHELSEA", County: "GREATER LONDON", BasePrice: 210000, Shares: 12},
	{Town: "LONDON", District: "CITY OF WESTMINSTER", County: "GREATER LONDON", BasePrice: 185000, Shares: 14},
	{Town: "LONDON", District: "CAMDEN", County: "GREATER LONDON", BasePrice: 150000, Shares: 10},
	{Town: "LONDON", District: "HAMMERSMITH AND FULHAM", County: "GREATER LONDON", BasePrice: 140000, Shares: 10},
	{Town: "LONDON", District: "CITY OF LONDON", County: "GREATER LONDON", BasePrice: 260000, Shares: 2},
	{Town: "VIRGINIA WATER", District: "RUNNYMEDE", County: "SURREY", BasePrice: 240000, Shares: 3},
	{Town: "GERRARDS CROSS", District: "SOUTH BUCKS", County: "BUCKINGHAMSHIRE", BasePrice: 175000, Shares: 5},
	{Town: "OXFORD", District: "OXFORD", County: "OXFORDSHIRE", BasePrice: 110000, Shares: 6},
	{Town: "CAMBRIDGE", District: "CAMBRIDGE", County: "CAMBRIDGESHIRE", BasePrice: 105000, Shares: 6},
	{Town: "BATH", District: "BATH AND NORTH EAST SOMERSET", County: "BATH AND NORTH EAST SOMERSET", BasePrice: 95000, Shares: 5},
	{Town: "HARROGATE", District: "HARROGATE", County: "NORTH YORKSHIRE", BasePrice: 85000, Shares: 5},
	{Town: "BRISTOL", District: "CITY OF BRISTOL", County: "CITY OF BRISTOL", BasePrice: 65000, Shares: 9},
	{Town: "MANCHESTER", District: "MANCHESTER", County: "GREATER MANCHESTER", BasePrice: 60000, Shares: 10},
	{Town: "BIRMINGHAM", District: "BIRMINGHAM", County: "WEST MIDLANDS", BasePrice: 55000, Shares: 12},
	{Town: "LEEDS", District: "LEEDS", County: "WEST YORKSHIRE", BasePrice: 55000, Shares: 10},
	{Town: "LIVERPOOL", District: "LIVERPOOL", County: "MERSEYSIDE", BasePrice: 45000, Shares: 9},
}

// volumeShift scales sales volume over a range of months.
type volumeShift struct {
	from, to time.Time
	factor   float64
}

var shifts = []volumeShift{
	{from: month(2007, 12), to: month(2009, 6), factor: 0.55},
	{from: month(2016, 1), to: month(2016, 6), factor: 1.3},
	{from: month(2020, 3), to: month(2020, 8), factor: 0.6},
	{from: month(2020, 9), to: month(2021, 11), factor: 1.2},
}

// Config controls a generation run.
type Config struct {
	Seed          uint64
	FromYear      types.Year
	ToYear        types.Year
	SalesPerShare int
	Neighborhoods []Neighborhood
}

// Option applies a configuration option to the generator.
type Option func(*Config)

// WithSeed fixes the random source; equal seeds give equal output.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithYears limits generation to [from, to].
func WithYears(from, to types.Year) Option {
	return func(c *Config) {
		if from <= to {
			c.FromYear, c.ToYear = from, to
		}
	}
}

// WithSalesPerShare sets monthly sales per catalogue share.
func WithSalesPerShare(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SalesPerShare = n
		}
	}
}

// WithNeighborhoods replaces the catalogue.
func WithNeighborhoods(ns []Neighborhood) Option {
	return func(c *Config) {
		if len(ns) > 0 {
			c.Neighborhoods = ns
		}
	}
}

// Generate builds transactions month by month, oldest first.
func Generate(ctx context.Context, opts ...Option) ([]types.Transaction, error) {
	cfg := Config{
		Seed:          DefaultSeed,
		FromYear:      types.FirstYear,
		ToYear:        types.LastYear,
		SalesPerShare: DefaultSalesPerShare,
		Neighborhoods: Neighborhoods,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>1|1))

	var out []types.Transaction
	for y := int(cfg.FromYear); y <= int(cfg.ToYear); y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		growth := math.Pow(1+annualGrowth, float64(y-types.FirstYear))
		for m := 1; m <= monthsInYear; m++ {
			factor := volumeFactor(month(y, m))
			for _, n := range cfg.Neighborhoods {
				count := int(math.Round(float64(n.Shares*cfg.SalesPerShare) * factor))
				for i := 0; i < count; i++ {
					out = append(out, types.Transaction{
						Date:     time.Date(y, time.Month(m), 1+rng.IntN(maxDay), 0, 0, 0, 0, time.UTC),
						Price:    int64(math.Round(n.BasePrice * growth * (jitterMin + jitterRange*rng.Float64()))),
						Town:     n.Town,
						District: n.District,
						County:   n.County,
					})
				}
			}
		}
	}
	logger.Get().Info(ctx, "generated transactions",
		logger.Int("count", len(out)),
		logger.String("from", cfg.FromYear.String()),
		logger.String("to", cfg.ToYear.String()),
	)
	return out, nil
}

func volumeFactor(t time.Time) float64 {
	for _, s := range shifts {
		if !t.Before(s.from) && !t.After(s.to) {
			return s.factor
		}
	}
	return 1
}

func month(y, m int) time.Time {
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}
