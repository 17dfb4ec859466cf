// Package i18n provides the translation function used for user-facing text.
// Keys are the English strings themselves; %name% placeholders are replaced
// from the substitution map.
package i18n

import (
	"strings"
)

// Subs maps placeholder names (without the % delimiters) to values.
type Subs map[string]string

// Func translates key, applying subs.
type Func func(key string, subs Subs) string

// Catalog maps English keys to translated text.
type Catalog map[string]string

// English returns keys unchanged apart from substitution.
func English(key string, subs Subs) string {
	return Substitute(key, subs)
}

// New returns a Func backed by catalog. Missing keys fall back to the key.
func New(catalog Catalog) Func {
	return func(key string, subs Subs) string {
		text, ok := catalog[key]
		if !ok {
			text = key
		}
		return Substitute(text, subs)
	}
}

// Substitute replaces every %name% in text with subs[name]. Unknown
// placeholders are left as-is.
func Substitute(text string, subs Subs) string {
	if len(subs) == 0 || !strings.Contains(text, "%") {
		return text
	}
	pairs := make([]string, 0, 2*len(subs))
	for k, v := range subs {
		pairs = append(pairs, "%"+k+"%", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
