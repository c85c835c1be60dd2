// Package ranker orders the documents matching an OR query by raw keyword
// frequency.
package ranker

import (
	"sort"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/internal/indexer/index"
)

// DefaultLimit is the number of documents a query returns.
const DefaultLimit = 5

// ScoredDoc is a ranked document and the frequency it was ranked by.
type ScoredDoc struct {
	DocID     string `json:"doc_id"`
	Frequency int    `json:"frequency"`
}

// Rank merges the occurrence lists of the query keywords, in query order,
// and returns at most limit documents by descending frequency. Equal
// frequencies keep the order of the concatenated lists, so the first
// keyword wins ties. A document matched by several keywords appears once,
// ranked by its first (highest) occurrence; frequencies are not summed.
// A limit below 1 means DefaultLimit.
func Rank(lists []index.OccurrenceList, limit int) []ScoredDoc {
	if limit < 1 {
		limit = DefaultLimit
	}
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	combined := make(index.OccurrenceList, 0, total)
	for _, l := range lists {
		combined = append(combined, l...)
	}
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Frequency > combined[j].Frequency
	})

	seen := make(map[string]struct{}, len(combined))
	result := make([]ScoredDoc, 0, min(limit, len(combined)))
	for _, occ := range combined {
		if len(result) == limit {
			break
		}
		if _, dup := seen[occ.Document]; dup {
			continue
		}
		seen[occ.Document] = struct{}{}
		result = append(result, ScoredDoc{DocID: occ.Document, Frequency: occ.Frequency})
	}
	return result
}

// DocIDs returns the document identifiers of docs, in order.
func DocIDs(docs []ScoredDoc) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.DocID
	}
	return ids
}
