package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/units"
)

var (
	// An integer followed by a decimal, left behind when "1 ½" becomes "1 0.5".
	// The leading group keeps the integer from being the tail of a larger number.
	fusionPattern = regexp.MustCompile(`(^|[^\d.])(\d+)\s+(\d+\.\d+)`)
	// A quantity right after a digit or slash is the tail of an unresolved
	// fraction such as "1/32" and is left alone.
	quantityPattern = regexp.MustCompile(`(?:^|[^\d/])(\d+(?:\.\d+)?)\s*([a-zA-Z]+)`)
)

// Unifier rewrites ingredient lines so the first measured quantity is
// expressed in grams.
type Unifier struct {
	tables units.Tables
}

// NewUnifier returns a Unifier reading from tables.
func NewUnifier(tables units.Tables) *Unifier {
	return &Unifier{tables: tables}
}

// UnifyIngredients applies UnifyLine to each part of a comma-space joined
// ingredient string. An empty string stays empty.
func (u *Unifier) UnifyIngredients(joined string) string {
	if joined == "" {
		return ""
	}
	lines := strings.Split(joined, models.IngredientSeparator)
	for i, line := range lines {
		lines[i] = u.UnifyLine(line)
	}
	return strings.Join(lines, models.IngredientSeparator)
}

// UnifyAll applies UnifyLine to every line, returning a new slice.
func (u *Unifier) UnifyAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = u.UnifyLine(line)
	}
	return out
}

// UnifyLine resolves fractions, fuses mixed numbers and converts the first
// "<number><unit>" into grams when the unit is known. Lines without a
// convertible measurement come back with only fractions resolved.
func (u *Unifier) UnifyLine(line string) string {
	line = u.ResolveFractions(line)

	loc := quantityPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return line
	}

	quantity, err := strconv.ParseFloat(line[loc[2]:loc[3]], 64)
	if err != nil {
		return line
	}
	grams, ok := u.tables.ToBase(quantity, line[loc[4]:loc[5]])
	if !ok {
		return line
	}

	return line[:loc[2]] + fmt.Sprintf("%.2f %s", grams, units.BaseUnit) + line[loc[1]:]
}

// ResolveFractions replaces fraction tokens with decimals and collapses
// "<int> <decimal>" pairs into their sum until none are left, so
// "1 2 0.5" becomes "3.5".
func (u *Unifier) ResolveFractions(line string) string {
	line = u.tables.ReplaceFractions(u.separateGluedFractions(line))
	for {
		fused := fuseMixedNumbers(line)
		if fused == line {
			return line
		}
		line = fused
	}
}

// separateGluedFractions turns "1½" into "1 ½" so the fused result reads
// 1.5 rather than 10.5.
func (u *Unifier) separateGluedFractions(line string) string {
	var b strings.Builder
	b.Grow(len(line) + 4)
	prev := rune(0)
	for _, r := range line {
		if unicode.IsDigit(prev) && u.tables.IsUnicodeFraction(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func fuseMixedNumbers(line string) string {
	matches := fusionPattern.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		whole, err1 := strconv.ParseFloat(line[m[4]:m[5]], 64)
		part, err2 := strconv.ParseFloat(line[m[6]:m[7]], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		b.WriteString(line[last:m[4]])
		b.WriteString(models.FormatFloat(whole + part))
		last = m[1]
	}
	b.WriteString(line[last:])
	return b.String()
}
