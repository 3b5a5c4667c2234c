package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits reference documents into embedding-sized pieces.
type TextChunker interface {
	Chunk(text string) []string
}

type paragraphChunker struct {
	maxRunes int
	overlap  int
}

// NewTextChunker returns a chunker that packs whole paragraphs into chunks of
// at most maxRunes, carrying overlap runes of context into the next chunk.
func NewTextChunker(maxRunes, overlap int) TextChunker {
	if maxRunes <= 0 {
		maxRunes = 1000
	}
	if overlap < 0 || overlap >= maxRunes {
		overlap = maxRunes / 4
	}
	return &paragraphChunker{maxRunes: maxRunes, overlap: overlap}
}

func (c *paragraphChunker) Chunk(text string) []string {
	var pieces []string
	for _, para := range strings.Split(CleanParagraphs(text), "\n\n") {
		if utf8.RuneCountInString(para) <= c.maxRunes {
			pieces = append(pieces, para)
			continue
		}
		pieces = append(pieces, splitSentences(para)...)
	}

	var chunks []string
	var current strings.Builder
	// dirty is set once current holds more than the carried-over overlap.
	dirty := false
	flush := func() {
		if !dirty {
			return
		}
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		current.WriteString(lastRunes(chunk, c.overlap))
		dirty = false
	}

	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if utf8.RuneCountInString(current.String())+utf8.RuneCountInString(piece)+1 > c.maxRunes {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(piece)
		dirty = true
	}
	if dirty {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// CleanParagraphs trims every line, drops blank runs and keeps paragraph breaks.
func CleanParagraphs(text string) string {
	var paragraphs []string
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(lines) > 0 {
				paragraphs = append(paragraphs, strings.Join(lines, " "))
				lines = nil
			}
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		paragraphs = append(paragraphs, strings.Join(lines, " "))
	}
	return strings.Join(paragraphs, "\n\n")
}

// splitSentences keeps the terminating punctuation on each sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
