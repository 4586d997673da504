package profanity

import "strings"

// Filter screens user-supplied display names against a fixed word list.
// It is constructed once at startup and handed to whatever validates content.
type Filter struct {
	blocked map[string]struct{}
}

func NewFilter(words []string) *Filter {
	blocked := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		blocked[w] = struct{}{}
	}

	return &Filter{blocked: blocked}
}

// Contains reports whether any token of the input matches the block list.
// Matching is token-wise and case-insensitive; punctuation separates tokens.
func (f *Filter) Contains(input string) bool {
	if len(f.blocked) == 0 {
		return false
	}

	for _, token := range tokenize(input) {
		if _, ok := f.blocked[token]; ok {
			return true
		}
	}

	return false
}

func tokenize(input string) []string {
	return strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r >= 0x0600 && r <= 0x06FF: // Arabic/Persian block
			return false
		default:
			return true
		}
	})
}
