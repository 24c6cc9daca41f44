package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a field-level parse failure.
type Kind string

const (
	KindInvalidDate    Kind = "invalid_date"
	KindInvalidMileage Kind = "invalid_mileage"
	KindInvalidCost    Kind = "invalid_cost"
	KindMissingValue   Kind = "missing_value"
)

// ParseError reports a single field that could not be parsed. The original
// text is preserved so the UI can show it back for correction.
type ParseError struct {
	Kind     Kind
	Original string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Kind, e.Original)
}

var (
	// M/D/YYYY or M-D-YYYY, same separator on both sides.
	dateFullRe = regexp.MustCompile(`^(\d{1,2})([/-])(\d{1,2})[/-](\d{4})$`)
	// M/YYYY shorthand, day defaults to the 1st.
	dateMonthRe = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
)

// ParseDate converts free-form spreadsheet dates into a calendar date.
// Accepted forms: M/D/YYYY, M-D-YYYY and M/YYYY. Two-digit years are
// rejected so "1/5/24" is never silently read as year 24 or 2024.
func ParseDate(text string) (time.Time, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return time.Time{}, &ParseError{Kind: KindInvalidDate, Original: text}
	}

	var month, day, year int
	if m := dateFullRe.FindStringSubmatch(s); m != nil {
		month, _ = strconv.Atoi(m[1])
		day, _ = strconv.Atoi(m[3])
		year, _ = strconv.Atoi(m[4])
	} else if m := dateMonthRe.FindStringSubmatch(s); m != nil {
		month, _ = strconv.Atoi(m[1])
		day = 1
		year, _ = strconv.Atoi(m[2])
	} else {
		return time.Time{}, &ParseError{Kind: KindInvalidDate, Original: text}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, &ParseError{Kind: KindInvalidDate, Original: text}
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (4/31 -> 5/1); reject those rows instead.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, &ParseError{Kind: KindInvalidDate, Original: text}
	}
	return d, nil
}

// ParseMileage converts odometer text into miles. Thousands separators are
// stripped and a trailing k/K multiplies by 1000 ("145k" -> 145000).
func ParseMileage(text string) (int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if s == "" {
		return 0, &ParseError{Kind: KindInvalidMileage, Original: text}
	}

	multiplier := 1
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		multiplier = 1000
		s = s[:len(s)-1]
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, &ParseError{Kind: KindInvalidMileage, Original: text}
	}
	return n * multiplier, nil
}

// ParseCost converts currency text into a decimal amount. Empty input means
// the optional cost is absent and yields (nil, nil). A leading dollar sign
// and thousands separators are tolerated; parenthesized values follow the
// accounting convention and come back negative.
func ParseCost(text string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = s[1 : len(s)-1]
		s = strings.TrimSpace(s)
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return nil, &ParseError{Kind: KindInvalidCost, Original: text}
	}
	if negative {
		amount = amount.Neg()
	}
	return &amount, nil
}
