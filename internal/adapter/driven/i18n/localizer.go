// Package i18n provides the message catalog used by every display surface.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer resolves message keys for a single language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Localizer for the closest supported match of locale
// (a BCP 47 tag such as "de" or "es-MX"). Unknown locales fall back to English.
func New(locale string) (*Localizer, error) {
	cat, err := newCatalog()
	if err != nil {
		return nil, fmt.Errorf("building message catalog: %w", err)
	}

	tag := language.English
	if locale != "" {
		requested, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
		}
		_, idx, _ := language.NewMatcher(supported).Match(requested)
		tag = supported[idx]
	}

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}, nil
}

// T returns the translation of key formatted with args.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Language returns the matched catalog language.
func (l *Localizer) Language() language.Tag {
	return l.tag
}
