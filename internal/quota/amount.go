package quota

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a numeric billing field. Absent and null decode to a zero value
// that is not Present; numbers and numeric strings decode to their value;
// any other JSON value decodes to NaN so the failure surfaces in Compute.
type Amount struct {
	Value   float64
	Present bool
}

// Num returns an Amount holding v.
func Num(v float64) Amount {
	return Amount{Value: v, Present: true}
}

// Finite reports whether the value can take part in arithmetic.
func (a Amount) Finite() bool {
	return !math.IsNaN(a.Value) && !math.IsInf(a.Value, 0)
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = Amount{}
		return nil
	}

	a.Present = true
	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.Value = parseNumericString(s)
	case c == '-' || (c >= '0' && c <= '9'):
		v, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			// Out of float64 range.
			a.Value = math.NaN()
			return nil
		}
		a.Value = v
	default:
		a.Value = math.NaN()
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Present || !a.Finite() {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// parseNumericString follows loose numeric coercion: blank is zero and
// anything that is not a decimal number is NaN.
func parseNumericString(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
