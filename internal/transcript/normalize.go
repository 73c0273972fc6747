// Package transcript normalizes raw speech-to-text output.
package transcript

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options controls normalization behavior.
type Options struct {
	CapitalizeSentences bool
}

var pronounIContractionPattern = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)

var pronounIWordPattern = regexp.MustCompile(`\bi\b`)

// Normalize collapses interior whitespace runs, trims the ends, and,
// when configured, capitalizes sentence starts and the pronoun I.
func Normalize(raw string, opts Options) string {
	normalized := strings.Join(strings.Fields(raw), " ")
	if normalized == "" {
		return ""
	}

	if opts.CapitalizeSentences {
		normalized = capitalizeSentenceStarts(normalized)
		normalized = pronounIContractionPattern.ReplaceAllStringFunc(normalized, func(match string) string {
			return "I" + match[1:]
		})
		normalized = capitalizeStandalonePronounI(normalized)
	}

	return normalized
}

func capitalizeSentenceStarts(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalizeStart := true
	pendingBoundary := false
	sawWhitespaceAfterBoundary := false

	for i, r := range runes {
		if capitalizeStart && unicode.IsLetter(r) {
			if shouldCapitalizeWordAt(runes, i) {
				r = unicode.ToUpper(r)
			}
			capitalizeStart = false
			pendingBoundary = false
			sawWhitespaceAfterBoundary = false
		} else if pendingBoundary {
			switch {
			case unicode.IsSpace(r):
				sawWhitespaceAfterBoundary = true
			case unicode.IsLetter(r):
				if sawWhitespaceAfterBoundary && shouldCapitalizeWordAt(runes, i) {
					r = unicode.ToUpper(r)
				}
				pendingBoundary = false
				sawWhitespaceAfterBoundary = false
			case unicode.IsDigit(r):
				pendingBoundary = false
				sawWhitespaceAfterBoundary = false
			case isClosingRune(r):
				// Keep waiting for a letter across punctuation like: . "quote"
			default:
				if !sawWhitespaceAfterBoundary {
					pendingBoundary = false
					sawWhitespaceAfterBoundary = false
				}
			}
		}

		out.WriteRune(r)

		switch r {
		case '.':
			pendingBoundary = isSentenceBoundaryPeriod(runes, i)
			sawWhitespaceAfterBoundary = false
		case '!', '?':
			pendingBoundary = true
			sawWhitespaceAfterBoundary = false
		}
	}

	return out.String()
}

func shouldCapitalizeWordAt(runes []rune, idx int) bool {
	token := strings.ToLower(strings.Trim(wordTokenFromIndex(runes, idx), "."))
	if token == "" {
		return true
	}
	_, keepLower := lowercaseStartAbbreviations[token]
	return !keepLower
}

func wordTokenFromIndex(runes []rune, idx int) string {
	if idx < 0 || idx >= len(runes) {
		return ""
	}

	end := idx
	for end < len(runes) {
		r := runes[end]
		if unicode.IsLetter(r) || r == '.' {
			end++
			continue
		}
		break
	}

	return string(runes[idx:end])
}

func isClosingRune(r rune) bool {
	switch r {
	case ')', ']', '}', '\'', '"', '’', '”':
		return true
	default:
		return false
	}
}

func capitalizeStandalonePronounI(text string) string {
	matches := pronounIWordPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		out.WriteString(text[last:start])
		if pronounIIsAbbreviationPart(text, start, end) {
			out.WriteString(text[start:end])
		} else {
			out.WriteString("I")
		}
		last = end
	}

	out.WriteString(text[last:])
	return out.String()
}

// pronounIIsAbbreviationPart keeps the i in tokens like "i.e." lowercase.
func pronounIIsAbbreviationPart(text string, start int, end int) bool {
	if end+1 < len(text) && text[end] == '.' {
		nextRune, _ := utf8.DecodeRuneInString(text[end+1:])
		if unicode.IsLetter(nextRune) {
			return true
		}
	}

	if start > 1 && text[start-1] == '.' && end < len(text) && text[end] == '.' {
		prevRune, _ := utf8.DecodeLastRuneInString(text[:start-1])
		if unicode.IsLetter(prevRune) {
			return true
		}
	}

	return false
}
