package parser

import (
	"net/http"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/errors"
)

// MaxTerms is the number of keywords an OR query may name.
const MaxTerms = 2

// QueryPlan is a parsed "kw1 OR kw2" query. Terms holds the raw words,
// Keywords their normalised forms; a word that is not a keyword (a noise
// word or one with invalid characters) has an empty keyword and matches
// nothing.
type QueryPlan struct {
	Terms    []string
	Keywords []string
	RawQuery string
}

// Parse splits query into at most two terms separated by whitespace and an
// optional OR. Terms are normalised with tok.
func Parse(query string, tok *tokenizer.Tokenizer) (*QueryPlan, error) {
	plan := &QueryPlan{
		Terms:    make([]string, 0, MaxTerms),
		Keywords: make([]string, 0, MaxTerms),
		RawQuery: query,
	}
	words := strings.Fields(query)
	for i, w := range words {
		if strings.EqualFold(w, "OR") && i > 0 && i < len(words)-1 {
			continue
		}
		plan.Terms = append(plan.Terms, w)
	}
	if len(plan.Terms) > MaxTerms {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest,
			"query names %d keywords, at most %d are supported", len(plan.Terms), MaxTerms)
	}
	for _, term := range plan.Terms {
		plan.Keywords = append(plan.Keywords, Normalize(term, tok))
	}
	return plan, nil
}

// FromKeywords builds a plan from two separately supplied words.
func FromKeywords(kw1, kw2 string, tok *tokenizer.Tokenizer) *QueryPlan {
	plan := &QueryPlan{
		Terms:    []string{kw1, kw2},
		Keywords: []string{Normalize(kw1, tok), Normalize(kw2, tok)},
		RawQuery: strings.TrimSpace(kw1 + " or " + kw2),
	}
	return plan
}

// Normalize returns the keyword form of word, or "" when word is not a
// keyword. A nil tokenizer leaves the word as typed.
func Normalize(word string, tok *tokenizer.Tokenizer) string {
	if tok == nil {
		return word
	}
	keyword, ok := tok.Keyword(word)
	if !ok {
		return ""
	}
	return keyword
}

// Pair returns the first and second keyword, padding with "".
func (p *QueryPlan) Pair() (string, string) {
	var kw1, kw2 string
	if len(p.Keywords) > 0 {
		kw1 = p.Keywords[0]
	}
	if len(p.Keywords) > 1 {
		kw2 = p.Keywords[1]
	}
	return kw1, kw2
}

// Empty reports whether the plan has no usable keyword.
func (p *QueryPlan) Empty() bool {
	for _, k := range p.Keywords {
		if k != "" {
			return false
		}
	}
	return true
}
