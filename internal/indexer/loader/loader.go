// Package loader scans a single document and counts its keywords.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/source"
	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/tokenizer"
)

// MaxWordSize is the longest word Count considers. Longer runs of
// non-space characters are skipped as non-keywords.
const MaxWordSize = 1 << 20

// Result is the keyword count of one document.
type Result struct {
	Document string
	Keywords map[string]index.Occurrence
	Tokens   int
}

// Load opens name from src and counts its keywords. A missing document is
// reported as an error wrapping errors.ErrNotFound.
func Load(ctx context.Context, src source.DocumentSource, name string, tok *tokenizer.Tokenizer) (*Result, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", name, err)
	}
	defer rc.Close()
	res, err := Count(rc, name, tok)
	if err != nil {
		return nil, fmt.Errorf("loading document %s: %w", name, err)
	}
	return res, nil
}

// Count reads whitespace-delimited words from r and returns one Occurrence
// per keyword, its frequency being the number of times the keyword appears.
func Count(r io.Reader, document string, tok *tokenizer.Tokenizer) (*Result, error) {
	words := &wordSplitter{max: MaxWordSize}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxWordSize)
	scanner.Split(words.split)

	res := &Result{
		Document: document,
		Keywords: make(map[string]index.Occurrence),
	}
	for scanner.Scan() {
		res.Tokens++
		keyword, ok := tok.Keyword(scanner.Text())
		if !ok {
			continue
		}
		occ, exists := res.Keywords[keyword]
		if !exists {
			occ = index.Occurrence{Document: document}
		}
		occ.Frequency++
		res.Keywords[keyword] = occ
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	res.Tokens += words.skipped
	return res, nil
}

// wordSplitter is bufio.ScanWords that drops words longer than max instead
// of failing with bufio.ErrTooLong.
type wordSplitter struct {
	max      int
	skipping bool
	skipped  int
}

func (s *wordSplitter) split(data []byte, atEOF bool) (int, []byte, error) {
	if s.skipping {
		i := 0
		for i < len(data) {
			r, width := utf8.DecodeRune(data[i:])
			if unicode.IsSpace(r) {
				break
			}
			i += width
		}
		if i == len(data) {
			return i, nil, nil
		}
		s.skipping = false
		if i > 0 {
			return i, nil, nil
		}
	}
	advance, token, err := bufio.ScanWords(data, atEOF)
	if advance == 0 && token == nil && err == nil && len(data) >= s.max {
		s.skipping = true
		s.skipped++
		return len(data), nil, nil
	}
	return advance, token, err
}
