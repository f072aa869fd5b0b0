// Package localename converts free-text Vietnamese place names into the
// ASCII form the weather provider expects.
package localename

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// adminPrefixes are administrative-unit designators stripped from the head
// of a query when followed by whitespace. Matched case-insensitively,
// longest first so "Thành phố" wins over a bare word.
var adminPrefixes = []string{
	"thành phố",
	"thị xã",
	"tỉnh",
	"quận",
	"huyện",
	"phường",
	"xã",
}

// accentTable maps each accented variant to its unaccented base letter.
var accentTable = map[rune]rune{}

func init() {
	bases := map[rune]string{
		'a': "áàảãạâấầẩẫậăắằẳẵặ",
		'A': "ÁÀẢÃẠÂẤẦẨẪẬĂẮẰẲẴẶ",
		'e': "éèẻẽẹêếềểễệ",
		'E': "ÉÈẺẼẸÊẾỀỂỄỆ",
		'i': "íìỉĩị",
		'I': "ÍÌỈĨỊ",
		'o': "óòỏõọôốồổỗộơớờởỡợ",
		'O': "ÓÒỎÕỌÔỐỒỔỖỘƠỚỜỞỠỢ",
		'u': "úùủũụưứừửữự",
		'U': "ÚÙỦŨỤƯỨỪỬỮỰ",
		'y': "ýỳỷỹỵ",
		'Y': "ÝỲỶỸỴ",
		'd': "đ",
		'D': "Đ",
	}
	for base, variants := range bases {
		for _, r := range variants {
			accentTable[r] = base
		}
	}
}

// Normalize turns free-text city input into a provider-ready query:
// a leading administrative prefix is dropped, diacritics are folded to
// their base letters, and whitespace is collapsed. Case is preserved.
// Empty input yields an empty string; callers reject that before fetching.
func Normalize(s string) string {
	s = stripAdminPrefix(s)
	s = foldAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripAdminPrefix(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, prefix := range adminPrefixes {
		rest, ok := cutPrefixFold(trimmed, prefix)
		if !ok {
			continue
		}
		// The prefix only counts when whitespace follows it.
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsSpace(r) {
			return rest
		}
	}
	return trimmed
}

// cutPrefixFold removes prefix from s, comparing rune by rune with simple
// case folding. The prefix is expected in lower case.
func cutPrefixFold(s, prefix string) (string, bool) {
	rest := s
	for _, pr := range prefix {
		r, size := utf8.DecodeRuneInString(rest)
		if size == 0 || unicode.ToLower(r) != pr {
			return "", false
		}
		rest = rest[size:]
	}
	return rest, true
}

func foldAccents(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if base, ok := accentTable[r]; ok {
			b.WriteRune(base)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
