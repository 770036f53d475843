package sitechat

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Default chunking parameters, in runes.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk is a bounded-length slice of a page's text carrying provenance
// back to its source page. Derived deterministically from a Page;
// immutable once produced.
type Chunk struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	SourceURL string    `json:"sourceUrl"`
	Title     string    `json:"title"`
	Depth     int       `json:"depth"`
	Ordinal   int       `json:"ordinal"` // position within the source page, from 0
	Embedding []float32 `json:"embedding,omitempty"`
}

// ScoredChunk is a search match.
type ScoredChunk struct {
	Chunk *Chunk  `json:"chunk"`
	Score float64 `json:"score"`
}

// Chunker splits page text into overlapping segments. Lengths are
// measured in runes. Consecutive chunks always share exactly Overlap
// runes of trailing/leading text, so the original text can be
// reconstructed by concatenating chunks with overlaps removed.
type Chunker struct {
	Size    int
	Overlap int
}

// Validate returns an error if the chunker configuration is invalid.
func (c Chunker) Validate() error {
	if c.Size <= 0 {
		return Errorf(EINVALID, "chunk size must be > 0")
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return Errorf(EINVALID, "chunk overlap must satisfy 0 <= overlap < size")
	}
	return nil
}

// Split produces maximal non-empty chunks from text. Every chunk
// except the last has length at most Size; a chunk only reaches Size
// when no natural break (paragraph, then sentence, then word) is found
// in its tail. Whitespace-only input yields no chunks.
func (c Chunker) Split(text string) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for {
		if n-start <= c.Size {
			chunks = append(chunks, string(runes[start:]))
			return chunks, nil
		}
		cut := c.breakPoint(runes, start, start+c.Size)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - c.Overlap
	}
}

// breakPoint picks where to end the chunk starting at start, scanning
// backwards from end for a paragraph break, then a sentence end, then
// a word boundary, falling back to a hard cut at end. The cut never
// retreats past start+Overlap, which guarantees forward progress.
func (c Chunker) breakPoint(runes []rune, start, end int) int {
	floor := start + c.Overlap + 1

	for i := end; i >= floor; i-- {
		if i >= 2 && runes[i-1] == '\n' && runes[i-2] == '\n' {
			return i
		}
	}
	for i := end; i >= floor; i-- {
		if i >= 2 && isSentenceEnd(runes[i-2]) && unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	for i := end; i >= floor; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// ChunkPages splits every page and pairs each chunk back to its
// originating page's URL, title and depth. Ordinals restart at 0 for
// each page and preserve original order. Each chunk receives a unique
// id at creation; the id is the persistence key.
func (c Chunker) ChunkPages(pages []*Page) ([]*Chunk, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var chunks []*Chunk
	for _, page := range pages {
		parts, err := c.Split(page.Content)
		if err != nil {
			return nil, err
		}
		for i, part := range parts {
			chunks = append(chunks, &Chunk{
				ID:        uuid.New().String(),
				Text:      part,
				SourceURL: page.URL,
				Title:     page.Title,
				Depth:     page.Depth,
				Ordinal:   i,
			})
		}
	}
	return chunks, nil
}
