package parser

import (
	"reflect"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/errors"
)

func TestParse(t *testing.T) {
	tok := tokenizer.New([]string{"the"})
	tests := []struct {
		query        string
		wantKeywords []string
	}{
		{"cat or dog", []string{"cat", "dog"}},
		{"Cat OR Dog!", []string{"cat", "dog"}},
		{"cat dog", []string{"cat", "dog"}},
		{"cat", []string{"cat"}},
		{"or", []string{"or"}},
		{"or dog", []string{"or", "dog"}},
		{"the or wo!rd", []string{"", ""}},
		{"  ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			plan, err := Parse(tt.query, tok)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !reflect.DeepEqual(plan.Keywords, tt.wantKeywords) {
				t.Errorf("keywords = %q, want %q", plan.Keywords, tt.wantKeywords)
			}
			if plan.RawQuery != tt.query {
				t.Errorf("raw query = %q", plan.RawQuery)
			}
		})
	}
}

func TestParseRejectsThreeTerms(t *testing.T) {
	_, err := Parse("cat or dog or bird", tokenizer.New(nil))
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.HTTPStatusCode(err) != 400 {
		t.Errorf("status = %d", apperrors.HTTPStatusCode(err))
	}
}

func TestFromKeywordsAndPair(t *testing.T) {
	plan := FromKeywords("Apple.", "THE", tokenizer.New([]string{"the"}))
	kw1, kw2 := plan.Pair()
	if kw1 != "apple" || kw2 != "" {
		t.Errorf("Pair() = %q, %q", kw1, kw2)
	}
	if plan.Empty() {
		t.Error("plan with one keyword is not empty")
	}
	if !FromKeywords("the", "!!", tokenizer.New([]string{"the"})).Empty() {
		t.Error("expected empty plan")
	}
}

func TestNormalizeWithoutTokenizer(t *testing.T) {
	if got := Normalize("As-Typed", nil); got != "As-Typed" {
		t.Errorf("Normalize = %q", got)
	}
}

func BenchmarkParse(b *testing.B) {
	tok := tokenizer.New([]string{"the", "a", "and"})
	queries := []struct {
		name  string
		query string
	}{
		{"single", "apple"},
		{"pair", "apple pear"},
		{"or", "Apple OR pear!"},
	}
	for _, q := range queries {
		b.Run(q.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(q.query, tok); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
