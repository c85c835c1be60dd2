package index

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
)

func freqs(list OccurrenceList) []int {
	out := make([]int, len(list))
	for i, o := range list {
		out[i] = o.Frequency
	}
	return out
}

func listOf(fs ...int) OccurrenceList {
	list := make(OccurrenceList, len(fs))
	for i, f := range fs {
		list[i] = Occurrence{Document: fmt.Sprintf("doc%d", i), Frequency: f}
	}
	return list
}

func TestInsertLastOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		sorted    []int
		insert    int
		wantFreqs []int
		wantMids  []int
		wantPos   int
	}{
		{"lower lands right of last mid", []int{10, 8, 6, 4, 2}, 5, []int{10, 8, 6, 5, 4, 2}, []int{2, 3}, 3},
		{"equal stops at mid", []int{10, 8, 6, 4, 2}, 8, []int{10, 8, 8, 6, 4, 2}, []int{2, 0, 1}, 1},
		{"smallest goes last", []int{10, 8, 6, 4, 2}, 1, []int{10, 8, 6, 4, 2, 1}, []int{2, 3, 4}, 5},
		{"largest goes first", []int{10, 8, 6, 4, 2}, 12, []int{12, 10, 8, 6, 4, 2}, []int{2, 0}, 0},
		{"single lower", []int{5}, 3, []int{5, 3}, []int{0}, 1},
		{"single higher", []int{3}, 5, []int{5, 3}, []int{0}, 0},
		{"even length", []int{9, 7, 5, 3}, 4, []int{9, 7, 5, 4, 3}, []int{1, 2, 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := append(listOf(tt.sorted...), Occurrence{Document: "new", Frequency: tt.insert})
			got, mids := InsertLastOccurrence(list)
			if !reflect.DeepEqual(freqs(got), tt.wantFreqs) {
				t.Errorf("frequencies = %v, want %v", freqs(got), tt.wantFreqs)
			}
			if !reflect.DeepEqual(mids, tt.wantMids) {
				t.Errorf("midpoints = %v, want %v", mids, tt.wantMids)
			}
			if got[tt.wantPos].Document != "new" {
				t.Errorf("new occurrence at wrong position: %v", got)
			}
		})
	}
}

func TestInsertLastOccurrenceShortLists(t *testing.T) {
	got, mids := InsertLastOccurrence(nil)
	if got != nil || mids != nil {
		t.Errorf("nil list: got %v %v", got, mids)
	}
	one := OccurrenceList{{Document: "a", Frequency: 1}}
	got, mids = InsertLastOccurrence(one)
	if len(got) != 1 || mids != nil {
		t.Errorf("single element: got %v %v", got, mids)
	}
}

func TestMergeOrdersByFrequency(t *testing.T) {
	idx := NewKeywordIndex()
	idx.Merge(map[string]Occurrence{"apple": {Document: "D1", Frequency: 3}})
	idx.Merge(map[string]Occurrence{"apple": {Document: "D2", Frequency: 5}})

	want := OccurrenceList{{"D2", 5}, {"D1", 3}}
	if got := idx.Lookup("apple"); !reflect.DeepEqual(got, want) {
		t.Fatalf("apple = %v, want %v", got, want)
	}
	if idx.DocCount() != 2 || idx.KeywordCount() != 1 {
		t.Errorf("stats = %+v", idx.Stats())
	}
}

func TestMergeKeepsListsNonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	idx := NewKeywordIndex()
	keywords := []string{"cat", "dog", "bird", "fish"}
	for d := 0; d < 200; d++ {
		kws := make(map[string]Occurrence)
		for _, kw := range keywords {
			if rng.Intn(3) == 0 {
				continue
			}
			kws[kw] = Occurrence{Document: fmt.Sprintf("doc-%d", d), Frequency: 1 + rng.Intn(12)}
		}
		idx.Merge(kws)

		for _, kw := range keywords {
			list := idx.Lookup(kw)
			for i := 1; i < len(list); i++ {
				if list[i].Frequency > list[i-1].Frequency {
					t.Fatalf("after doc %d, %q out of order at %d: %v", d, kw, i, freqs(list))
				}
			}
		}
	}
}

func TestLookupAbsentAndCopy(t *testing.T) {
	idx := NewKeywordIndex()
	if got := idx.Lookup("missing"); got != nil {
		t.Errorf("absent keyword = %v, want nil", got)
	}
	idx.Merge(map[string]Occurrence{"cat": {Document: "a", Frequency: 2}})
	got := idx.Lookup("cat")
	got[0].Frequency = 99
	if idx.Lookup("cat")[0].Frequency != 2 {
		t.Error("Lookup must return a copy")
	}
	if !idx.Contains("cat") || idx.Contains("dog") {
		t.Error("Contains mismatch")
	}
}

func TestSnapshotSortedByKeyword(t *testing.T) {
	idx := NewKeywordIndex()
	idx.Merge(map[string]Occurrence{
		"zebra": {Document: "a", Frequency: 1},
		"apple": {Document: "a", Frequency: 4},
		"mango": {Document: "a", Frequency: 2},
	})
	idx.Merge(map[string]Occurrence{"apple": {Document: "b", Frequency: 1}})

	snap := idx.Snapshot()
	var names []string
	for _, e := range snap {
		names = append(names, e.Keyword)
	}
	if !reflect.DeepEqual(names, []string{"apple", "mango", "zebra"}) {
		t.Errorf("snapshot order = %v", names)
	}
	if s := idx.Stats(); s.Occurrences != 4 || s.Documents != 2 || s.Keywords != 3 {
		t.Errorf("stats = %+v", s)
	}
}

func BenchmarkMerge(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		idx := NewKeywordIndex()
		for d := 0; d < 500; d++ {
			idx.Merge(map[string]Occurrence{
				"search": {Document: fmt.Sprintf("doc-%d", d), Frequency: d%17 + 1},
				"index":  {Document: fmt.Sprintf("doc-%d", d), Frequency: d%5 + 1},
			})
		}
	}
}
