package generator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/finshield/pkg/finshield"
)

func TestGenerate_Shape(t *testing.T) {
	ds, err := Generate(Options{Rows: 500, Seed: 1})
	require.NoError(t, err)

	assert.Equal(t, 500, ds.Len())
	assert.Equal(t, Columns, ds.ColumnNames())
	assert.Equal(t, "TX1000000", ds.Columns[0].Values[0])
	assert.Equal(t, "TX1000499", ds.Columns[0].Values[499])
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(Options{Rows: 200, Seed: 7})
	require.NoError(t, err)
	b, err := Generate(Options{Rows: 200, Seed: 7})
	require.NoError(t, err)
	c, err := Generate(Options{Rows: 200, Seed: 8})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_ValueRanges(t *testing.T) {
	ds, err := Generate(Options{Rows: 2000, Seed: DefaultSeed})
	require.NoError(t, err)

	byName := map[string]finshield.Column{}
	for _, c := range ds.Columns {
		byName[c.Name] = c
	}

	var prev time.Time
	fraud := 0
	for i := 0; i < ds.Len(); i++ {
		ts := byName["event_time"].Values[i].(time.Time)
		assert.False(t, ts.Before(prev), "event_time must not decrease")
		assert.False(t, ts.Before(DefaultStart))
		prev = ts

		cust := byName["customer_id"].Values[i].(int64)
		assert.True(t, cust >= 10_000 && cust < 200_000)
		merch := byName["merchant_id"].Values[i].(int64)
		assert.True(t, merch >= 1_000 && merch < 50_000)

		amount := byName["tx_amount"].Values[i].(float64)
		assert.GreaterOrEqual(t, amount, 0.0)
		assert.InDelta(t, amount, float64(int64(amount*100+0.5))/100, 1e-9)

		assert.Contains(t, []string{"PAYMENT", "TRANSFER", "CASH_OUT", "DEBIT", "CREDIT"}, byName["tx_type"].Values[i])
		assert.Equal(t, int64(ts.Hour()), byName["hour"].Values[i])
		assert.Equal(t, time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), byName["day"].Values[i])

		if byName["is_fraud"].Values[i].(int64) == 1 {
			fraud++
		}
	}
	assert.Equal(t, FraudCount(2000), fraud)
}

func TestFraudCount(t *testing.T) {
	tests := map[int]int{0: 0, 5: 5, 10: 10, 1000: 10, 50_000: 10, 100_000: 20, 1_000_000: 200}
	for n, want := range tests {
		assert.Equal(t, want, FraudCount(n), "n=%d", n)
	}
}

func TestFraudIndices_Distinct(t *testing.T) {
	idx := FraudIndices(rand.New(rand.NewSource(3)), 12)
	assert.Len(t, idx, 10)

	seen := map[int]bool{}
	for _, i := range idx {
		assert.False(t, seen[i])
		assert.True(t, i >= 0 && i < 12)
		seen[i] = true
	}
}

func TestGenerate_Edges(t *testing.T) {
	ds, err := Generate(Options{Rows: 0})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())

	_, err = Generate(Options{Rows: -1})
	assert.ErrorIs(t, err, finshield.ErrInvalidConfig)
}
