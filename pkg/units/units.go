// Package units holds the read-only lookup tables used to normalize
// ingredient quantities: unit-to-gram factors and textual fractions.
package units

import (
	"sort"
	"strings"
)

// BaseUnit is the unit every convertible quantity is rewritten into.
const BaseUnit = "grams"

// Tables maps unit names to gram factors and fraction tokens to decimal
// strings. A Tables value is built once and never mutated afterwards.
type Tables struct {
	units     map[string]float64
	fractions map[string]string
	// tokens are the fraction keys, longest first.
	tokens []string
}

// Volume units assume the density of water. Count-like units (stick,
// pinch, dash) use common kitchen approximations.
var defaultUnits = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000, "kilograms": 1000,
	"mg": 0.001, "milligram": 0.001, "milligrams": 0.001,
	"oz": 28.35, "ounce": 28.35, "ounces": 28.35,
	"lb": 453.59, "lbs": 453.59, "pound": 453.59, "pounds": 453.59,
	"ml": 1, "milliliter": 1, "milliliters": 1, "millilitre": 1, "millilitres": 1,
	"l": 1000, "liter": 1000, "liters": 1000, "litre": 1000, "litres": 1000,
	"cup": 240, "cups": 240,
	"tablespoon": 15, "tablespoons": 15, "tbsp": 15, "tbs": 15,
	"teaspoon": 5, "teaspoons": 5, "tsp": 5,
	"fluid": 29.57, "pint": 473.18, "pints": 473.18,
	"quart": 946.35, "quarts": 946.35, "gallon": 3785.41, "gallons": 3785.41,
	"stick": 113, "sticks": 113,
	"pinch": 0.36, "pinches": 0.36, "dash": 0.6, "dashes": 0.6,
}

var defaultFractions = map[string]string{
	"½": "0.5", "⅓": "0.333", "⅔": "0.667",
	"¼": "0.25", "¾": "0.75",
	"⅕": "0.2", "⅖": "0.4", "⅗": "0.6", "⅘": "0.8",
	"⅙": "0.167", "⅚": "0.833",
	"⅛": "0.125", "⅜": "0.375", "⅝": "0.625", "⅞": "0.875",
	"1/2": "0.5", "1/3": "0.333", "2/3": "0.667",
	"1/4": "0.25", "3/4": "0.75",
	"1/8": "0.125", "3/8": "0.375", "5/8": "0.625", "7/8": "0.875",
}

// Default returns the built-in tables.
func Default() Tables {
	return New(nil, nil)
}

// New builds tables from the defaults plus the given overrides. Unit keys
// are lowercased; overrides win over defaults.
func New(unitOverrides map[string]float64, fractionOverrides map[string]string) Tables {
	t := Tables{
		units:     make(map[string]float64, len(defaultUnits)+len(unitOverrides)),
		fractions: make(map[string]string, len(defaultFractions)+len(fractionOverrides)),
	}
	for k, v := range defaultUnits {
		t.units[k] = v
	}
	for k, v := range unitOverrides {
		t.units[strings.ToLower(k)] = v
	}
	for k, v := range defaultFractions {
		t.fractions[k] = v
	}
	for k, v := range fractionOverrides {
		if k != "" {
			t.fractions[k] = v
		}
	}
	t.tokens = sortedTokens(t.fractions)
	return t
}

// sortedTokens orders tokens longest first so the most specific one wins
// at each position.
func sortedTokens(fractions map[string]string) []string {
	tokens := make([]string, 0, len(fractions))
	for tok := range fractions {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if len(tokens[i]) != len(tokens[j]) {
			return len(tokens[i]) > len(tokens[j])
		}
		return tokens[i] < tokens[j]
	})
	return tokens
}

// Factor returns the gram factor for unit, matched case-insensitively.
func (t Tables) Factor(unit string) (float64, bool) {
	f, ok := t.units[strings.ToLower(unit)]
	return f, ok
}

// ToBase converts quantity of unit into grams. ok is false when the unit
// is unknown, in which case quantity is returned as-is.
func (t Tables) ToBase(quantity float64, unit string) (float64, bool) {
	f, ok := t.Factor(unit)
	if !ok {
		return quantity, false
	}
	return quantity * f, true
}

// Fraction returns the decimal string for a fraction token.
func (t Tables) Fraction(token string) (string, bool) {
	d, ok := t.fractions[token]
	return d, ok
}

// ReplaceFractions substitutes every known fraction token in s with its
// decimal string in a single pass; replaced text is never rescanned. A
// token starting or ending with a digit only matches when the neighbouring
// byte is not a digit, so "1/2" is not found inside "11/2" or "1/32".
func (t Tables) ReplaceFractions(s string) string {
	if len(t.tokens) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		tok, ok := t.tokenAt(s, i)
		if !ok {
			b.WriteByte(s[i])
			i++
			continue
		}
		d, _ := t.Fraction(tok)
		b.WriteString(d)
		i += len(tok)
	}
	return b.String()
}

func (t Tables) tokenAt(s string, i int) (string, bool) {
	for _, tok := range t.tokens {
		if !strings.HasPrefix(s[i:], tok) {
			continue
		}
		if isDigit(tok[0]) && i > 0 && isDigit(s[i-1]) {
			continue
		}
		end := i + len(tok)
		if isDigit(tok[len(tok)-1]) && end < len(s) && isDigit(s[end]) {
			continue
		}
		return tok, true
	}
	return "", false
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsUnicodeFraction reports whether r is a single-rune fraction token in t.
func (t Tables) IsUnicodeFraction(r rune) bool {
	_, ok := t.fractions[string(r)]
	return ok && (r < '0' || r > '9')
}
