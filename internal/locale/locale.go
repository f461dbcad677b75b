// Package locale turns the shop's region settings into display formatting.
package locale

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pharmapulse/backend/internal/domain"
)

type Region struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Locale   string `json:"locale"`
	Currency string `json:"currency"`
}

var regions = []Region{
	{ID: "us", Name: "United States", Locale: "en-US", Currency: "USD"},
	{ID: "eu", Name: "Europe", Locale: "de-DE", Currency: "EUR"},
	{ID: "uk", Name: "United Kingdom", Locale: "en-GB", Currency: "GBP"},
	{ID: "in", Name: "India", Locale: "en-IN", Currency: "INR"},
	{ID: "jp", Name: "Japan", Locale: "ja-JP", Currency: "JPY"},
	{ID: "ca", Name: "Canada", Locale: "en-CA", Currency: "CAD"},
	{ID: "au", Name: "Australia", Locale: "en-AU", Currency: "AUD"},
	{ID: "ae", Name: "UAE", Locale: "en-AE", Currency: "AED"},
}

// Regions lists the regions offered in the settings screen.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// short date layouts keyed by the supported locales, matched with language.Matcher
var (
	dateTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.MustParse("en-IN"),
		language.MustParse("en-CA"),
		language.MustParse("en-AU"),
		language.MustParse("en-AE"),
		language.German,
		language.Japanese,
	}
	dateLayouts = []string{
		"1/2/2006",
		"02/01/2006",
		"2/1/2006",
		"2006-01-02",
		"02/01/2006",
		"02/01/2006",
		"2.1.2006",
		"2006/1/2",
	}
	dateMatcher = language.NewMatcher(dateTags)
)

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"CAD": "CA$",
	"AUD": "A$",
	"AED": "AED ",
}

// Formatter renders amounts and dates for one AppSettings value.
type Formatter struct {
	tag        language.Tag
	unit       currency.Unit
	printer    *message.Printer
	scale      int
	symbol     string
	suffix     bool
	dateLayout string
	location   *time.Location
}

// Validate reports whether settings name a parseable locale and an ISO 4217 currency.
func Validate(settings domain.AppSettings) error {
	if strings.TrimSpace(settings.CountryName) == "" {
		return fmt.Errorf("country name is required")
	}
	if _, err := language.Parse(settings.Locale); err != nil {
		return fmt.Errorf("invalid locale %q", settings.Locale)
	}
	if _, err := currency.ParseISO(settings.Currency); err != nil {
		return fmt.Errorf("invalid currency %q", settings.Currency)
	}
	return nil
}

// NewFormatter builds a formatter; loc nil means UTC.
func NewFormatter(settings domain.AppSettings, loc *time.Location) (*Formatter, error) {
	tag, err := language.Parse(settings.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", settings.Locale, err)
	}
	unit, err := currency.ParseISO(settings.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", settings.Currency, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	scale, _ := currency.Standard.Rounding(unit)
	_, idx, _ := dateMatcher.Match(tag)
	base, _ := tag.Base()

	symbol, ok := symbols[unit.String()]
	if !ok {
		symbol = unit.String() + " "
	}

	return &Formatter{
		tag:        tag,
		unit:       unit,
		printer:    message.NewPrinter(tag),
		scale:      scale,
		symbol:     symbol,
		suffix:     base.String() == "de",
		dateLayout: dateLayouts[idx],
		location:   loc,
	}, nil
}

// MustFormatter is NewFormatter for settings known to be valid; invalid
// settings fall back to en-US / USD.
func MustFormatter(settings domain.AppSettings, loc *time.Location) *Formatter {
	f, err := NewFormatter(settings, loc)
	if err != nil {
		f, _ = NewFormatter(domain.AppSettings{Locale: "en-US", Currency: "USD", CountryName: "United States"}, loc)
	}
	return f
}

// Money formats amount with the currency's standard number of decimals and
// the locale's digit grouping.
func (f *Formatter) Money(amount decimal.Decimal) string {
	rounded := amount.Round(int32(f.scale)).InexactFloat64()
	number := f.printer.Sprintf(fmt.Sprintf("%%.%df", f.scale), rounded)
	if f.suffix {
		return strings.TrimSpace(number + " " + strings.TrimSpace(f.symbol))
	}
	return f.symbol + number
}

// Date renders the calendar day of t in the formatter's time zone.
func (f *Formatter) Date(t time.Time) string {
	return t.In(f.location).Format(f.dateLayout)
}

func (f *Formatter) Location() *time.Location {
	return f.location
}

func (f *Formatter) Currency() string {
	return f.unit.String()
}
