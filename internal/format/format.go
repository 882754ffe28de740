// Package format renders profile and money values for display: Indian-style
// digit grouping, dates, phone numbers, and PAN presentation.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	enIN       = language.MustParse("en-IN")
	printer    = message.NewPrinter(enIN)
	titleCaser = cases.Title(enIN)
	nonDigitRe = regexp.MustCompile(`\D`)
)

const empty = "--"

// Currency formats amount with en-IN grouping (1,23,456.78) and two fraction
// digits, prefixed with the rupee symbol when showSymbol is set.
func Currency(amount float64, showSymbol bool) string {
	n := printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if showSymbol {
		return "₹" + n
	}
	return n
}

// Date renders t in one of the layouts used across the client:
// "short" (DD/MM/YYYY), "long" (D Month YYYY), "time" (HH:MM:SS) or
// "datetime". A zero time renders as "--"; unknown layouts fall back
// to short.
func Date(t time.Time, layout string) string {
	if t.IsZero() {
		return empty
	}
	switch layout {
	case "long":
		return t.Format("2 January 2006")
	case "time":
		return t.Format("15:04:05")
	case "datetime":
		return t.Format("02/01/2006, 15:04:05")
	default:
		return t.Format("02/01/2006")
	}
}

// Percentage renders value with the given number of decimals and a trailing
// percent sign.
func Percentage(value float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, value)
}

// Quantity formats a whole number with en-IN grouping.
func Quantity(quantity int64) string {
	return printer.Sprint(number.Decimal(quantity))
}

// TruncateText cuts text to maxLength runes, replacing the tail with "...".
func TruncateText(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// PhoneNumber renders a 10-digit number as "+91 XXXXX XXXXX". Anything else
// is returned unchanged.
func PhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}
	cleaned := nonDigitRe.ReplaceAllString(phone, "")
	if len(cleaned) == 10 {
		return fmt.Sprintf("+91 %s %s", cleaned[:5], cleaned[5:])
	}
	return phone
}

// CapitalizeWords upper-cases the first letter of every word.
func CapitalizeWords(text string) string {
	if text == "" {
		return ""
	}
	return titleCaser.String(text)
}

// PAN renders a 10-character PAN as "AAAAA 0000 A". Other lengths are
// returned unchanged.
func PAN(pan string) string {
	if len(pan) != 10 {
		return pan
	}
	return fmt.Sprintf("%s %s %s", pan[:5], pan[5:9], pan[9:])
}

// MaskPAN hides the holder-derived prefix of a 10-character PAN, keeping the
// serial digits and the check letter visible. Other lengths are returned
// unchanged.
func MaskPAN(pan string) string {
	if len(pan) != 10 {
		return pan
	}
	return strings.Repeat("X", 5) + pan[5:]
}
