package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sigitdim/fortisapp-sub001/engine"
)

// Number accepts a JSON number or a string such as "12.500", "2.100,50" or
// "Rp 15.000". The raw text is kept until a strict or lenient parse is asked for.
// Only strings get the Indonesian separator handling; a JSON number 1.250 is 1.25.
type Number struct {
	raw     string
	set     bool
	literal bool
}

// NewNumber builds a Number from raw text, mostly for tests and query params.
func NewNumber(raw string) Number {
	return Number{raw: raw, set: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number{raw: s, set: true}
		return nil
	}
	*n = Number{raw: string(b), set: true, literal: true}
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	if n.literal {
		return []byte(n.raw), nil
	}
	return json.Marshal(n.raw)
}

// IsSet reports whether the field was present and not null.
func (n Number) IsSet() bool { return n.set }

var thousandsOnly = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)

// normalize turns Indonesian-formatted text into a strconv-friendly string.
func normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp")
	s = strings.ReplaceAll(s, " ", "")
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	case hasDot && thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// maxAmount is the largest value any numeric field may carry.
var maxAmount = float64(engine.MaxMoney)

func (n Number) text() string {
	if n.literal {
		return n.raw
	}
	return normalize(n.raw)
}

// Float is the strict parse used for explicit API payloads: anything that is
// not a finite number in [0, engine.MaxMoney] is an ErrInvalidNumericInput.
func (n Number) Float(field string) (float64, error) {
	if !n.set {
		return 0, fmt.Errorf("%w: %s is required", engine.ErrInvalidNumericInput, field)
	}
	f, err := strconv.ParseFloat(n.text(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %s=%q is not a number", engine.ErrInvalidNumericInput, field, n.raw)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", engine.ErrInvalidNumericInput, field)
	}
	if f > maxAmount {
		return 0, fmt.Errorf("%w: %s must not exceed %d", engine.ErrInvalidNumericInput, field, engine.MaxMoney)
	}
	return f, nil
}

// Money is Float rounded half-up to a whole rupiah.
func (n Number) Money(field string) (int64, error) {
	f, err := n.Float(field)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(f).Round(0).IntPart(), nil
}

// Int is Float that must be a whole number.
func (n Number) Int(field string) (int, error) {
	f, err := n.Float(field)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s must be a whole number", engine.ErrInvalidNumericInput, field)
	}
	return int(f), nil
}

// Lenient is the parse used for live-typed fields: garbage, negatives and
// NaN become 0, anything too large becomes engine.MaxMoney.
func (n Number) Lenient() float64 {
	if n.literal {
		return lenient(n.raw)
	}
	return Lenient(n.raw)
}

// Lenient parses free-text user entry, clamping anything unusable to 0 and
// anything above engine.MaxMoney to the ceiling.
func Lenient(raw string) float64 {
	return lenient(normalize(raw))
}

func lenient(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) || math.IsNaN(f) || f < 0 {
		return 0
	}
	return math.Min(f, maxAmount)
}

func lenientMoney(n Number) engine.Money {
	return engine.Money(decimal.NewFromFloat(n.Lenient()).Round(0).IntPart())
}

// optionalFloat returns def when n is absent.
func optionalFloat(n *Number, field string, def float64) (float64, error) {
	if n == nil || !n.IsSet() {
		return def, nil
	}
	return n.Float(field)
}

func optionalMoney(n *Number, field string) (int64, error) {
	if n == nil || !n.IsSet() {
		return 0, nil
	}
	return n.Money(field)
}
