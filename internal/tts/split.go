package tts

import "strings"

// DefaultChunkLimit is the per-request character budget for engines that
// degrade on long inputs.
const DefaultChunkLimit = 500

// sentenceEnders close a sentence for splitting purposes. Both CJK and Latin
// terminators are recognized.
var sentenceEnders = map[rune]struct{}{
	'。': {}, '.': {}, '!': {}, '?': {}, '！': {}, '？': {},
}

// SplitText breaks text into chunks of at most limit runes, splitting on
// sentence boundaries. Sentences are packed greedily; a single sentence
// longer than the limit is hard-split at the limit. Text within the limit
// comes back as a single chunk, and chunk order preserves reading order.
func SplitText(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	var current []rune
	flush := func() {
		if trimmed := strings.TrimSpace(string(current)); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current = nil
	}

	for _, sentence := range splitSentences(runes) {
		if len(sentence) > limit {
			// Oversized sentence: emit what we have, then hard-split.
			flush()
			for start := 0; start < len(sentence); start += limit {
				end := start + limit
				if end > len(sentence) {
					end = len(sentence)
				}
				current = append([]rune(nil), sentence[start:end]...)
				flush()
			}
			continue
		}
		if len(current)+len(sentence) > limit {
			flush()
		}
		current = append(current, sentence...)
	}
	flush()

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitSentences cuts runes after each sentence terminator, keeping the
// terminator with its sentence.
func splitSentences(runes []rune) [][]rune {
	var sentences [][]rune
	start := 0
	for i, r := range runes {
		if _, ends := sentenceEnders[r]; ends {
			sentences = append(sentences, runes[start:i+1])
			start = i + 1
		}
	}
	if start < len(runes) {
		sentences = append(sentences, runes[start:])
	}
	return sentences
}
