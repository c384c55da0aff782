// Package generator produces synthetic card transactions for load testing
// and fraud-model experiments.
//
// Inter-arrival times are exponential with a 60 second mean; amounts are
// exponential with a mean of 50, rounded to cents. A fixed number of rows
// (n/5000, at least 10) is marked as fraud. The same seed always yields the
// same dataset.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vvka-141/finshield/pkg/finshield"
)

const (
	DefaultRows = 100_000
	DefaultSeed = 42

	firstTransactionID = 1_000_000
	meanArrivalSeconds = 60.0
	meanAmount         = 50.0
	fraudRate          = 5000
	minFraudRows       = 10
)

// DefaultStart is the timestamp of the first transaction.
var DefaultStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Column names in output order.
var Columns = []string{
	"transaction_id", "event_time", "customer_id", "merchant_id",
	"tx_amount", "tx_type", "is_fraud", "hour", "day",
}

type weighted struct {
	value  string
	weight float64
}

var txTypes = []weighted{
	{"PAYMENT", 0.5},
	{"TRANSFER", 0.2},
	{"CASH_OUT", 0.15},
	{"DEBIT", 0.1},
	{"CREDIT", 0.05},
}

// Options controls generation.
type Options struct {
	Rows  int
	Seed  int64
	Start time.Time
}

// DefaultOptions returns the options used when nothing is given.
func DefaultOptions() Options {
	return Options{Rows: DefaultRows, Seed: DefaultSeed, Start: DefaultStart}
}

// Generate builds a transactions dataset.
func Generate(opts Options) (*finshield.Dataset, error) {
	if opts.Rows < 0 {
		return nil, fmt.Errorf("row count cannot be negative, got %d: %w", opts.Rows, finshield.ErrInvalidConfig)
	}
	if opts.Start.IsZero() {
		opts.Start = DefaultStart
	}

	n := opts.Rows
	rng := rand.New(rand.NewSource(opts.Seed))

	var (
		ids       = make([]any, n)
		times     = make([]any, n)
		customers = make([]any, n)
		merchants = make([]any, n)
		amounts   = make([]any, n)
		types     = make([]any, n)
		fraud     = make([]any, n)
		hours     = make([]any, n)
		days      = make([]any, n)
	)

	elapsed := 0.0
	for i := 0; i < n; i++ {
		elapsed += rng.ExpFloat64() * meanArrivalSeconds
		ts := opts.Start.Add(time.Duration(int64(elapsed)) * time.Second).UTC()

		ids[i] = fmt.Sprintf("TX%d", firstTransactionID+i)
		times[i] = ts
		customers[i] = int64(10_000 + rng.Intn(190_000))
		merchants[i] = int64(1_000 + rng.Intn(49_000))
		amounts[i] = roundCents(rng.ExpFloat64() * meanAmount)
		types[i] = pick(rng, txTypes)
		fraud[i] = int64(0)
		hours[i] = int64(ts.Hour())
		days[i] = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	}

	for _, idx := range FraudIndices(rng, n) {
		fraud[idx] = int64(1)
	}

	return finshield.NewDataset(
		finshield.Column{Name: "transaction_id", Type: finshield.TypeText, Values: ids},
		finshield.Column{Name: "event_time", Type: finshield.TypeTimestamp, Values: times},
		finshield.Column{Name: "customer_id", Type: finshield.TypeInteger, Values: customers},
		finshield.Column{Name: "merchant_id", Type: finshield.TypeInteger, Values: merchants},
		finshield.Column{Name: "tx_amount", Type: finshield.TypeFloat, Values: amounts},
		finshield.Column{Name: "tx_type", Type: finshield.TypeText, Values: types},
		finshield.Column{Name: "is_fraud", Type: finshield.TypeInteger, Values: fraud},
		finshield.Column{Name: "hour", Type: finshield.TypeInteger, Values: hours},
		finshield.Column{Name: "day", Type: finshield.TypeTimestamp, Values: days},
	)
}

// FraudCount returns how many of n rows are marked as fraud.
func FraudCount(n int) int {
	return min(n, max(minFraudRows, n/fraudRate))
}

// FraudIndices draws FraudCount(n) distinct row indices.
func FraudIndices(rng *rand.Rand, n int) []int {
	k := FraudCount(n)
	picked := make(map[int]struct{}, k)
	indices := make([]int, 0, k)
	for len(indices) < k {
		idx := rng.Intn(n)
		if _, dup := picked[idx]; dup {
			continue
		}
		picked[idx] = struct{}{}
		indices = append(indices, idx)
	}
	return indices
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func pick(rng *rand.Rand, choices []weighted) string {
	r := rng.Float64()
	for _, c := range choices {
		if r < c.weight {
			return c.value
		}
		r -= c.weight
	}
	return choices[len(choices)-1].value
}
