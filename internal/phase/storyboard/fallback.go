package storyboard

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vampirenirmal/comicscript/internal/domain/comic"
)

// SplitSentences tokenizes text into sentences. A sentence ends at '.', '!'
// or '?' (runs such as "?!" or "..." count once), optionally followed by
// closing quotes or brackets, when whitespace or the end of the text comes
// next. Trailing text without terminal punctuation is the last sentence.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminator(r) {
			i += size
			continue
		}

		end := i + size
		for end < len(text) {
			next, n := utf8.DecodeRuneInString(text[end:])
			if !isTerminator(next) && !isCloser(next) {
				break
			}
			end += n
		}

		if end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(next) {
				i = end
				continue
			}
		}

		if s := strings.TrimSpace(text[start:end]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '”', '’', '»':
		return true
	}
	return false
}

// FallbackSplit deterministically splits story into exactly target scenes.
// Sentence i goes to scene i mod target; each scene's sentences are joined
// with a single space in their original order. Scenes that receive no
// sentence keep an empty description. A non-positive target yields nil.
func FallbackSplit(story string, target int) []comic.Scene {
	if target < 1 {
		return nil
	}

	buckets := make([][]string, target)
	for i, sentence := range SplitSentences(story) {
		buckets[i%target] = append(buckets[i%target], sentence)
	}

	scenes := make([]comic.Scene, target)
	for i, bucket := range buckets {
		scenes[i] = comic.Scene{
			Title:       fmt.Sprintf("Scene %d", i+1),
			Description: strings.Join(bucket, " "),
		}
	}
	return scenes
}
