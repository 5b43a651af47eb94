package helpers

import (
	"fmt"
	"regexp"
	"strings"
)

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z",
	'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
	' ': "-", '/': "-", '\\': "-", ':': "-", '.': "-", ',': "-",
	'?': "", '!': "", '(': "", ')': "",
}

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes     = regexp.MustCompile(`-+`)
)

// Transliterate turns a Russian display name into a latin URL slug.
// Transliterate("Шары на День рождения") == "shary-na-den-rozhdeniya".
func Transliterate(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if latin, ok := cyrillicToLatin[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	slug := slugDisallowed.ReplaceAllString(b.String(), "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateSlug is Transliterate for free-form admin input.
func GenerateSlug(s string) string {
	return Transliterate(strings.TrimSpace(s))
}

// SuffixedSlug returns base for n == 0 and base-n otherwise.
func SuffixedSlug(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
