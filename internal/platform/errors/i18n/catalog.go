// Package i18n holds localized user-facing error message catalogs.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Code mirrors the error code string type to avoid an import cycle with the
// parent errors package.
type Code = string

// Catalog maps error codes to localized message templates.
type Catalog struct {
	locale   string
	tag      language.Tag
	messages map[Code]string
}

// Locale returns the catalog's BCP 47 locale string.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for a code, substituting {{.Key}} placeholders
// from metadata. Unknown codes fall back to the generic message.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		tmpl = c.messages["UNKNOWN"]
	}
	if len(metadata) == 0 || !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	out := tmpl
	for key, value := range metadata {
		out = strings.ReplaceAll(out, "{{."+key+"}}", value)
	}
	return out
}

var catalogs = []*Catalog{enUSCatalog}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(catalogs))
	for _, c := range catalogs {
		tags = append(tags, c.tag)
	}
	return language.NewMatcher(tags)
}()

// GetCatalog returns the best catalog for the requested locale, defaulting
// to en-US when the locale is empty or unsupported.
func GetCatalog(locale string) *Catalog {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return enUSCatalog
	}
	_, index, _ := matcher.Match(language.Make(locale))
	if index < 0 || index >= len(catalogs) {
		return enUSCatalog
	}
	return catalogs[index]
}
