package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/finshield/pkg/finshield"
)

// TimestampLayouts are the accepted timestamp formats, tried in order.
// Values are read as UTC wall-clock times.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// writeLayout formats timestamps so that TimestampLayouts reads them back.
const writeLayout = "2006-01-02 15:04:05.999999999"

type parser func(string) (any, bool)

var parsers = []struct {
	typ   finshield.SemanticType
	parse parser
}{
	{finshield.TypeInteger, parseInteger},
	{finshield.TypeFloat, parseFloat},
	{finshield.TypeBoolean, parseBoolean},
	{finshield.TypeTimestamp, parseTimestamp},
}

// InferType returns the semantic type of a column of raw cells.
func InferType(cells []string) finshield.SemanticType {
	for _, p := range parsers {
		if allParse(cells, p.parse) {
			return p.typ
		}
	}
	return finshield.TypeText
}

// allParse is false for columns without any non-empty cell.
func allParse(cells []string, parse parser) bool {
	seen := false
	for _, c := range cells {
		if c == "" {
			continue
		}
		if _, ok := parse(c); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// Convert parses raw cells as typ. Empty cells become nil.
func Convert(cells []string, typ finshield.SemanticType) []any {
	parse := parseText
	for _, p := range parsers {
		if p.typ == typ {
			parse = p.parse
		}
	}

	values := make([]any, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		if v, ok := parse(c); ok {
			values[i] = v
		}
	}
	return values
}

func parseInteger(s string) (any, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v, err == nil
}

func parseFloat(s string) (any, bool) {
	s = strings.TrimSpace(s)
	// ParseFloat accepts NaN and Inf spellings, which are text here.
	if strings.ContainsAny(s, "nNiI") {
		return nil, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseBoolean(s string) (any, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return nil, false
}

func parseTimestamp(s string) (any, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return nil, false
}

func parseText(s string) (any, bool) {
	return s, true
}

// formatFloat keeps a decimal point on whole numbers so the column reads
// back as float rather than integer.
func formatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if math.IsInf(x, 0) || math.IsNaN(x) || strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

// format renders a dataset value as a CSV cell.
func format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return formatFloat(x)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(writeLayout)
	case string:
		return x
	default:
		return ""
	}
}
