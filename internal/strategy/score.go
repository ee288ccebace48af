package strategy

import (
	"strings"

	"github.com/shelfport/shelfport/internal/domain"
)

// Score weights. Title similarity dominates; publisher/year only breaks near
// ties between otherwise similar candidates.
const (
	titleWeight   = 0.6
	authorWeight  = 0.3
	pubYearWeight = 0.1
)

// Best returns the candidate with the highest combined match score against
// the record. Ties break toward the earliest search rank, so the result is
// deterministic for a fixed result list.
func Best(rec *domain.BookRecord, candidates []domain.SourceCandidate) domain.SourceCandidate {
	best := candidates[0]
	bestScore := Score(rec, best)
	for _, c := range candidates[1:] {
		s := Score(rec, c)
		if s > bestScore || (s == bestScore && c.Rank < best.Rank) {
			best, bestScore = c, s
		}
	}
	return best
}

// Score computes the combined similarity of one candidate: token overlap of
// titles, overlap of the author sets, and publisher/year agreement when the
// candidate exposes them.
func Score(rec *domain.BookRecord, c domain.SourceCandidate) float64 {
	score := titleWeight * tokenOverlap(rec.Title, c.Title)

	authors, _ := rec.Get(domain.AttrAuthors).Value.([]domain.Author)
	score += authorWeight * authorOverlap(authors, c.Authors)

	pub := rec.Str(domain.AttrPublication)
	if c.Publisher != "" || c.Year != "" {
		var agree, terms float64
		if c.Publisher != "" {
			terms++
			if containsFold(pub, c.Publisher) {
				agree++
			}
		}
		if c.Year != "" {
			terms++
			if strings.Contains(pub, c.Year) || rec.Str(domain.AttrPubDate) == c.Year {
				agree++
			}
		}
		score += pubYearWeight * (agree / terms)
	}
	return score
}

// tokenOverlap is the Jaccard similarity of the lowercased word sets.
func tokenOverlap(a, b string) float64 {
	as, bs := tokens(a), tokens(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	var inter, union float64
	for t := range as {
		if bs[t] {
			inter++
		}
	}
	union = float64(len(as)+len(bs)) - inter
	return inter / union
}

func authorOverlap(authors []domain.Author, names []string) float64 {
	if len(authors) == 0 || len(names) == 0 {
		return 0
	}
	var matched float64
	for _, a := range authors {
		for _, n := range names {
			if sameAuthor(a.LastFirst, n) {
				matched++
				break
			}
		}
	}
	return matched / float64(len(authors))
}

// sameAuthor compares two author names loosely: every token of the shorter
// name must appear in the longer one, so "Tolkien, J. R. R." matches
// "J.R.R. Tolkien" regardless of ordering convention.
func sameAuthor(a, b string) bool {
	at, bt := tokens(a), tokens(b)
	if len(at) == 0 || len(bt) == 0 {
		return false
	}
	short, long := at, bt
	if len(bt) < len(at) {
		short, long = bt, at
	}
	for t := range short {
		if !long[t] {
			return false
		}
	}
	return true
}

func tokens(s string) map[string]bool {
	out := make(map[string]bool)
	for _, t := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if len(t) > 1 || (len(t) == 1 && t[0] >= '0' && t[0] <= '9') {
			out[t] = true
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
