package index

import (
	"sort"
	"sync"
)

// KeywordIndex maps each keyword to its occurrences across the corpus, most
// frequent first. It is filled by a single build pass and read-only after
// that; the lock lets readers share an index while a server is running.
type KeywordIndex struct {
	mu        sync.RWMutex
	index     map[string]OccurrenceList
	documents map[string]struct{}
}

// NewKeywordIndex returns an empty index.
func NewKeywordIndex() *KeywordIndex {
	return &KeywordIndex{
		index:     make(map[string]OccurrenceList, 1000),
		documents: make(map[string]struct{}),
	}
}

// Merge folds one document's keyword occurrences into the index. Each
// occurrence is appended to its keyword's list and moved into frequency
// order. Merging the same document twice adds a second occurrence; the
// build pass never does that.
func (m *KeywordIndex) Merge(kws map[string]Occurrence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for keyword, occ := range kws {
		list := append(m.index[keyword], occ)
		list, _ = InsertLastOccurrence(list)
		m.index[keyword] = list
		m.documents[occ.Document] = struct{}{}
	}
}

// Lookup returns a copy of the occurrence list for keyword, or nil when the
// keyword is not indexed.
func (m *KeywordIndex) Lookup(keyword string) OccurrenceList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, ok := m.index[keyword]
	if !ok {
		return nil
	}
	out := make(OccurrenceList, len(list))
	copy(out, list)
	return out
}

// Contains reports whether keyword has at least one occurrence.
func (m *KeywordIndex) Contains(keyword string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[keyword]
	return ok
}

// Snapshot returns every keyword entry sorted by keyword.
func (m *KeywordIndex) Snapshot() []KeywordEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]KeywordEntry, 0, len(m.index))
	for keyword, list := range m.index {
		occs := make(OccurrenceList, len(list))
		copy(occs, list)
		entries = append(entries, KeywordEntry{
			Keyword:     keyword,
			Occurrences: occs,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Keyword < entries[j].Keyword
	})
	return entries
}

// Stats counts keywords, documents and occurrences.
func (m *KeywordIndex) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Stats{
		Keywords:  len(m.index),
		Documents: len(m.documents),
	}
	for _, list := range m.index {
		s.Occurrences += len(list)
	}
	return s
}

// KeywordCount returns the number of distinct keywords.
func (m *KeywordIndex) KeywordCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}

// DocCount returns the number of documents merged so far.
func (m *KeywordIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}
