// Package normalize converts scraped free text into numeric fields and
// rewrites ingredient lines into a canonical base unit.
//
// Every function here is total: malformed input degrades to zero, the
// missing marker or an unchanged string, never an error.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dtnitsch/recipe-features/models"
)

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*hr`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*min`)
	rangeWord      = regexp.MustCompile(`(?i)\bto\b`)
)

// TimeToMinutes converts text such as "1 hr 30 mins" to minutes. The hour
// and minute parts are matched independently; a missing part counts as 0.
func TimeToMinutes(text string) int {
	return firstInt(hoursPattern, text)*60 + firstInt(minutesPattern, text)
}

func firstInt(re *regexp.Regexp, text string) int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// ProcessServings converts a servings value to a decimal string or
// models.MissingMarker.
//
//	"4 to 6"     -> "5.0"  (average of a range)
//	"8 servings" -> "8.0"  (first token)
//	12.0         -> "12.0" (numbers pass through)
//	"abc"        -> "?"
func ProcessServings(value any) string {
	switch v := value.(type) {
	case string:
		return servingsFromText(v)
	case float64:
		return formatFinite(v)
	case float32:
		return formatFinite(float64(v))
	case int:
		return formatFinite(float64(v))
	case int64:
		return formatFinite(float64(v))
	case *float64:
		if v == nil {
			return models.MissingMarker
		}
		return formatFinite(*v)
	}
	return models.MissingMarker
}

// ParseServings is ProcessServings returning a number, nil when missing.
func ParseServings(value any) *float64 {
	return models.ParseOptional(ProcessServings(value))
}

func servingsFromText(text string) string {
	if rangeWord.MatchString(text) {
		parts := rangeWord.Split(text, -1)
		if len(parts) < 2 {
			return models.MissingMarker
		}
		lo, ok := parseFinite(parts[0])
		if !ok {
			return models.MissingMarker
		}
		hi, ok := parseFinite(parts[1])
		if !ok {
			return models.MissingMarker
		}
		return models.FormatFloat((lo + hi) / 2)
	}

	fields := strings.Fields(text)
	if len(fields) == 0 {
		return models.MissingMarker
	}
	f, ok := parseFinite(fields[0])
	if !ok {
		return models.MissingMarker
	}
	return models.FormatFloat(f)
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatFinite(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.MissingMarker
	}
	return models.FormatFloat(f)
}
