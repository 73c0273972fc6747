package transcript

import (
	"strings"
	"unicode"
)

// lowercaseStartAbbreviations never gain an uppercase first letter even
// when they open a sentence.
var lowercaseStartAbbreviations = map[string]struct{}{
	"e.g": {},
	"etc": {},
	"i.e": {},
	"vs":  {},
}

// nonterminalAbbreviations rarely end a sentence, so a period after one
// only counts as a boundary when the following word is already capitalized.
var nonterminalAbbreviations = map[string]struct{}{
	"al":     {},
	"approx": {},
	"apt":    {},
	"ave":    {},
	"blvd":   {},
	"capt":   {},
	"col":    {},
	"dept":   {},
	"dr":     {},
	"e.g":    {},
	"est":    {},
	"fig":    {},
	"gen":    {},
	"gov":    {},
	"hon":    {},
	"i.e":    {},
	"jr":     {},
	"lt":     {},
	"ltd":    {},
	"messrs": {},
	"mr":     {},
	"mrs":    {},
	"ms":     {},
	"mt":     {},
	"no":     {},
	"prof":   {},
	"rd":     {},
	"rep":    {},
	"rev":    {},
	"sen":    {},
	"sgt":    {},
	"sr":     {},
	"st":     {},
	"ste":    {},
	"vs":     {},
}

// isSentenceBoundaryPeriod reports whether the period at idx ends a
// sentence rather than punctuating a number, initialism, or abbreviation.
func isSentenceBoundaryPeriod(runes []rune, idx int) bool {
	if idx < 0 || idx >= len(runes) || runes[idx] != '.' {
		return false
	}

	// Decimal point: 3.14
	if idx > 0 && idx+1 < len(runes) && unicode.IsDigit(runes[idx-1]) && unicode.IsDigit(runes[idx+1]) {
		return false
	}

	// Period embedded in a token: example.com, v1.2
	if idx+1 < len(runes) {
		next := runes[idx+1]
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return false
		}
	}

	word := precedingWord(runes, idx)
	if word == "" {
		return true
	}

	if isInitialism(word) || isKnownAbbreviation(word) {
		// "visited Dr. Smith" continues, "met at the mt. We camped" ends.
		return nextWordStartsUpper(runes, idx)
	}

	return true
}

// precedingWord collects the token immediately before the period at idx,
// including interior periods so initialisms like U.S stay whole.
func precedingWord(runes []rune, idx int) string {
	end := idx
	start := end
	for start > 0 {
		r := runes[start-1]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '\'' || r == '’' {
			start--
			continue
		}
		break
	}
	return string(runes[start:end])
}

func isKnownAbbreviation(word string) bool {
	_, ok := nonterminalAbbreviations[strings.ToLower(strings.Trim(word, "."))]
	return ok
}

// isInitialism matches dotted letter sequences such as U.S or e.g style
// tokens where every segment is a single letter.
func isInitialism(word string) bool {
	trimmed := strings.Trim(word, ".")
	if trimmed == "" || !strings.Contains(trimmed, ".") {
		return false
	}
	for _, segment := range strings.Split(trimmed, ".") {
		if len([]rune(segment)) != 1 {
			return false
		}
	}
	return true
}

func nextWordStartsUpper(runes []rune, idx int) bool {
	i := idx + 1
	for i < len(runes) {
		r := runes[i]
		if unicode.IsSpace(r) || isClosingRune(r) || r == '.' {
			i++
			continue
		}
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
		return false
	}
	return false
}
