package tokenizer

import (
	"strings"
	"testing"
)

func TestKeyword(t *testing.T) {
	tok := New([]string{"the", "A", "and"})

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"word", "word", true},
		{"WORD!!", "word", true},
		{"Word?!?!", "word", true},
		{"distance.", "distance", true},
		{"equi-distant", "", false},
		{"wo!rd", "", false},
		{"Rabbit's", "", false},
		{"!word", "", false},
		{"word!.a", "", false},
		{"2nd", "", false},
		{"word)", "", false},
		{"!!!", "", false},
		{"", "", false},
		{"The", "", false},
		{"a,", "", false},
		{"AND;", "", false},
		{"café", "café", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := tok.Keyword(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Keyword(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKeywordCaseAndPunctuationInsensitive(t *testing.T) {
	tok := New(nil)
	a, okA := tok.Keyword("WORD!!")
	b, okB := tok.Keyword("word")
	if !okA || !okB || a != b || a != "word" {
		t.Fatalf("got (%q,%v) and (%q,%v)", a, okA, b, okB)
	}
}

func TestKeywordIdempotent(t *testing.T) {
	tok := New([]string{"of"})
	for _, w := range []string{"Hello,", "WORLD?", "Sentence...", "plain", "of"} {
		k, ok := tok.Keyword(w)
		if !ok {
			continue
		}
		again, ok := tok.Keyword(k)
		if !ok || again != k {
			t.Errorf("Keyword(%q) = %q but Keyword(%q) = (%q, %v)", w, k, k, again, ok)
		}
	}
}

func TestNewNoiseWordSet(t *testing.T) {
	tok := New([]string{"a", " an ", "the", "", "Of", "the"})
	if tok.NoiseWordCount() != 4 {
		t.Errorf("NoiseWordCount() = %d", tok.NoiseWordCount())
	}
	if !tok.IsNoiseWord("of") {
		t.Error("noise words should be lower-cased on load")
	}
}

func BenchmarkKeyword(b *testing.B) {
	tok := New([]string{"the", "a", "of"})
	words := strings.Fields("The quick brown fox, jumps over the lazy dog!! Sentence? equi-distant wo!rd")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			_, _ = tok.Keyword(w)
		}
	}
}
