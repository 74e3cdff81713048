package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// DateLayout is the canonical output form of NormalizeDate.
const DateLayout = "2006-01-02"

// maxSerial is the spreadsheet serial of 9999-12-31.
const maxSerial = 2958465

var (
	serialPattern  = regexp.MustCompile(`^\d+(\.\d+)?$`)
	compactPattern = regexp.MustCompile(`^\d{8}$`)
	yearPattern    = regexp.MustCompile(`^[1-9]\d{3}$`)
	dottedPattern  = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`)

	// Dotted dates are always day first; the general parser reads them month first.
	dottedLayouts = []string{"2.1.2006", "2.1.06"}

	fallbackLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2006/1/2",
		"2006-1-2",
		"2 Jan 2006",
		"2 January 2006",
		"Jan 2006",
		"January 2006",
	}
)

// DateFunc converts one raw cell into a canonical date string.
type DateFunc func(cell any) string

// NormalizeDate converts a raw cell into YYYY-MM-DD, or "" when the value is
// not date-like. It never panics.
//
// Text is tried with a general day-first parser, then as a spreadsheet
// serial (days since 1899-12-30) when it is purely numeric, then against a
// fixed list of layouts. Four digit text is a year and dotted text is
// always day first. Numeric cells are read as serials.
func NormalizeDate(cell any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return normalizeDateText(v)
	case []byte:
		return normalizeDateText(string(v))
	case time.Time:
		return formatDate(v)
	case *time.Time:
		if v == nil {
			return ""
		}

		return formatDate(*v)
	case float64:
		return fromSerial(v)
	case float32:
		return fromSerial(float64(v))
	case int:
		return fromSerial(float64(v))
	case int8:
		return fromSerial(float64(v))
	case int16:
		return fromSerial(float64(v))
	case int32:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case uint:
		return fromSerial(float64(v))
	case uint8:
		return fromSerial(float64(v))
	case uint16:
		return fromSerial(float64(v))
	case uint32:
		return fromSerial(float64(v))
	case uint64:
		return fromSerial(float64(v))
	case bool:
		return ""
	case fmt.Stringer:
		return normalizeDateText(v.String())
	default:
		return normalizeDateText(fmt.Sprint(v))
	}
}

func normalizeDateText(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if yearPattern.MatchString(s) {
		if t, err := time.Parse("2006", s); err == nil {
			return formatDate(t)
		}
	}

	if dottedPattern.MatchString(s) {
		if out := parseLayouts(s, dottedLayouts); out != "" {
			return out
		}
	}

	numeric := serialPattern.MatchString(s)

	// Plain digit runs would be read as unix timestamps, so only the
	// compact yyyymmdd form goes through the general parser.
	if !numeric || compactPattern.MatchString(s) {
		if out := parseGeneral(s); out != "" {
			return out
		}
	}

	if numeric {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			if out := fromSerial(v); out != "" {
				return out
			}
		}
	}

	return parseLayouts(s, fallbackLayouts)
}

func parseLayouts(s string, layouts []string) string {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return formatDate(t)
		}
	}

	return ""
}

func parseGeneral(s string) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	t, err := dateparse.ParseAny(s,
		dateparse.PreferMonthFirst(false),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err != nil {
		return ""
	}

	return formatDate(t)
}

func fromSerial(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= maxSerial+1 {
		return ""
	}

	// Only the day is kept, so a time of day must not round into the next one.
	t, err := excelize.ExcelDateToTime(math.Floor(v), false)
	if err != nil {
		return ""
	}

	return formatDate(t)
}

func formatDate(t time.Time) string {
	if t.IsZero() || t.Year() < 1 || t.Year() > 9999 {
		return ""
	}

	return t.Format(DateLayout)
}
