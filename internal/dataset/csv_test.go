package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/finshield/pkg/finshield"
)

const sampleCSV = `transaction_id,event_time,customer_id,tx_amount,tx_type,is_fraud,flagged, note 
TX1000000,2024-01-01 00:00:42,10523,12.5,PAYMENT,0,true,
TX1000001,2024-01-01 00:01:10,18311,3,TRANSFER,1,FALSE,manual review
TX1000002,2024-01-01 00:02:55,,,CASH_OUT,0,,
`

func TestInferType(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  finshield.SemanticType
	}{
		{"integers", []string{"1", "-2", "30"}, finshield.TypeInteger},
		{"integers with nulls", []string{"1", "", "3"}, finshield.TypeInteger},
		{"mixed int and float", []string{"1", "2.5"}, finshield.TypeFloat},
		{"exponent", []string{"1e3"}, finshield.TypeFloat},
		{"nan is text", []string{"1.5", "NaN"}, finshield.TypeText},
		{"booleans", []string{"true", "False", "TRUE"}, finshield.TypeBoolean},
		{"zero and one are integers", []string{"0", "1"}, finshield.TypeInteger},
		{"timestamps", []string{"2024-01-01 10:00:00", "2024-01-02T11:30:00Z"}, finshield.TypeTimestamp},
		{"dates", []string{"2024-01-01", "2024-02-29"}, finshield.TypeTimestamp},
		{"text", []string{"PAYMENT", "1"}, finshield.TypeText},
		{"all empty", []string{"", ""}, finshield.TypeText},
		{"no cells", nil, finshield.TypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(tt.cells))
		})
	}
}

func TestReadCSV(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t,
		[]string{"transaction_id", "event_time", "customer_id", "tx_amount", "tx_type", "is_fraud", "flagged", "note"},
		ds.ColumnNames())

	types := make([]finshield.SemanticType, len(ds.Columns))
	for i, c := range ds.Columns {
		types[i] = c.Type
	}
	assert.Equal(t, []finshield.SemanticType{
		finshield.TypeText,
		finshield.TypeTimestamp,
		finshield.TypeInteger,
		finshield.TypeFloat,
		finshield.TypeText,
		finshield.TypeInteger,
		finshield.TypeBoolean,
		finshield.TypeText,
	}, types)

	assert.Equal(t, []any{"TX1000000", time.Date(2024, 1, 1, 0, 0, 42, 0, time.UTC), int64(10523), 12.5, "PAYMENT", int64(0), true, nil}, ds.Row(0))
	assert.Equal(t, []any{"TX1000002", time.Date(2024, 1, 1, 0, 2, 55, 0, time.UTC), nil, nil, "CASH_OUT", int64(0), nil, nil}, ds.Row(2))
	assert.Equal(t, 3.0, ds.Columns[3].Values[1])
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Len(t, ds.Columns, 2)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"ragged rows", "a,b\n1,2\n3\n"},
		{"duplicate header", "a,a\n1,2\n"},
		{"unterminated quote", "a\n\"x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, finshield.ErrInvalidDataset)
		})
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)
	ds, err := finshield.NewDataset(
		finshield.Column{Name: "id", Type: finshield.TypeInteger, Values: []any{int64(1), int64(2)}},
		finshield.Column{Name: "amount", Type: finshield.TypeFloat, Values: []any{0.25, 10.5}},
		finshield.Column{Name: "ok", Type: finshield.TypeBoolean, Values: []any{true, nil}},
		finshield.Column{Name: "at", Type: finshield.TypeTimestamp, Values: []any{ts, ts.Add(time.Hour)}},
		finshield.Column{Name: "label", Type: finshield.TypeText, Values: []any{"a,b", `say "hi"`}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))
	assert.True(t, strings.HasPrefix(buf.String(), "id,amount,ok,at,label\n1,0.25,true,2024-03-01 08:15:00,"))

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds, back)
}

func TestWriteCSV_WholeFloatsStayFloat(t *testing.T) {
	ds, err := finshield.NewDataset(
		finshield.Column{Name: "tx_amount", Type: finshield.TypeFloat, Values: []any{42.0, 7.0, -3.0}},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))
	assert.Equal(t, "tx_amount\n42.0\n7.0\n-3.0\n", buf.String())

	back, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, finshield.TypeFloat, back.Columns[0].Type)
	assert.Equal(t, []any{42.0, 7.0, -3.0}, back.Columns[0].Values)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{42, "42.0"},
		{0.25, "0.25"},
		{1e21, "1000000000000000000000.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.in))
	}
}

func TestCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tx.csv")
	ds, err := finshield.NewDataset(
		finshield.Column{Name: "id", Type: finshield.TypeInteger, Values: []any{int64(7)}},
	)
	require.NoError(t, err)

	require.NoError(t, WriteCSVFile(path, ds))
	back, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, ds, back)

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
