package bot

import (
	"strings"
	"unicode/utf8"
)

const maxTelegramMessageLen = 4096

// splitMessage cuts text into parts of at most maxLen bytes, preferring line
// breaks and never cutting inside a UTF-8 character.
func splitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			parts = append(parts, text)
			break
		}
		cutAt := maxLen
		if nlIdx := strings.LastIndex(text[:maxLen], "\n"); nlIdx > 0 {
			cutAt = nlIdx + 1
		} else {
			for cutAt > 0 && !utf8.RuneStart(text[cutAt]) {
				cutAt--
			}
			if cutAt == 0 {
				// maxLen is shorter than the first character
				_, size := utf8.DecodeRuneInString(text)
				cutAt = size
			}
		}
		parts = append(parts, text[:cutAt])
		text = text[cutAt:]
	}
	return parts
}
