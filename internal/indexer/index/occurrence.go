package index

// Occurrence records that a keyword appears Frequency times in Document.
type Occurrence struct {
	Document  string `json:"document"`
	Frequency int    `json:"frequency"`
}

// OccurrenceList is kept in non-increasing Frequency order.
type OccurrenceList []Occurrence

// KeywordEntry pairs a keyword with its occurrence list.
type KeywordEntry struct {
	Keyword     string         `json:"keyword"`
	Occurrences OccurrenceList `json:"occurrences"`
}

// Stats summarises an index.
type Stats struct {
	Keywords    int `json:"keywords"`
	Documents   int `json:"documents"`
	Occurrences int `json:"occurrences"`
}

// InsertLastOccurrence moves the last element of occs into place. Elements
// 0..n-2 must already be in non-increasing frequency order. The position is
// found by binary search over those elements; the midpoints examined are
// returned in order. Lists of length 0 or 1 are returned unchanged with a nil
// trace.
func InsertLastOccurrence(occs OccurrenceList) (OccurrenceList, []int) {
	n := len(occs)
	if n <= 1 {
		return occs, nil
	}
	target := occs[n-1]
	midpoints := make([]int, 0, 8)
	low, high := 0, n-2
	pos := 0
	for low <= high {
		mid := (low + high) / 2
		midpoints = append(midpoints, mid)
		freq := occs[mid].Frequency
		if freq == target.Frequency {
			pos = mid
			break
		}
		if freq > target.Frequency {
			low = mid + 1
			pos = mid + 1
		} else {
			high = mid - 1
			pos = mid
		}
	}
	copy(occs[pos+1:], occs[pos:n-1])
	occs[pos] = target
	return occs, midpoints
}
