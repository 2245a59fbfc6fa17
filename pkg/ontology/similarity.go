package ontology

import (
	"fmt"
	"math"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Similarity scores two genes by their shared annotation terms:
//
//	Σ_{t ∈ terms(a) ∩ terms(b)} −2·ln(TermSize[t] / TotalGenes)
//
// Rarer shared terms weigh more. The score is a monotone aggregate in the
// style of Fisher's combined statistic, not a calibrated p-value. Genes
// absent from the index, or sharing no term, score 0. A nil index scores 0.
func Similarity(idx *AnnotationIndex, a, b string) float64 {
	if idx == nil || idx.TotalGenes == 0 {
		return 0
	}
	termsA, ok := idx.GeneTerms[a]
	if !ok {
		return 0
	}
	termsB, ok := idx.GeneTerms[b]
	if !ok {
		return 0
	}

	// Iterate the smaller set
	small, big := termsA, termsB
	if len(small) > len(big) {
		small, big = big, small
	}

	var shared []string
	for t := range small {
		if _, ok := big[t]; ok {
			shared = append(shared, t)
		}
	}
	if len(shared) == 0 {
		return 0
	}
	// Fixed summation order keeps the result bit-identical across calls
	// and argument orders.
	sort.Strings(shared)

	total := float64(idx.TotalGenes)
	score := 0.0
	for _, t := range shared {
		score += -2 * math.Log(float64(idx.TermSize[t])/total)
	}
	return score
}

// Scorer computes pairwise gene similarity.
type Scorer interface {
	Score(a, b string) float64
}

// IndexScorer scores directly against an index.
type IndexScorer struct {
	Index *AnnotationIndex
}

// Score implements Scorer.
func (s IndexScorer) Score(a, b string) float64 {
	return Similarity(s.Index, a, b)
}

type pairKey struct {
	lo, hi string
}

func newPairKey(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// CachedScorer memoizes similarities per unordered symbol pair. Proteins
// sharing a gene symbol hit the same entry. Safe for concurrent use.
type CachedScorer struct {
	index *AnnotationIndex
	cache *lru.Cache[pairKey, float64]
}

// DefaultCacheSize is the number of symbol pairs kept by NewCachedScorer
// when size is not positive.
const DefaultCacheSize = 1 << 16

// NewCachedScorer wraps idx with an LRU cache of size entries.
func NewCachedScorer(idx *AnnotationIndex, size int) (*CachedScorer, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[pairKey, float64](size)
	if err != nil {
		return nil, fmt.Errorf("create similarity cache: %w", err)
	}
	return &CachedScorer{index: idx, cache: cache}, nil
}

// Score implements Scorer.
func (s *CachedScorer) Score(a, b string) float64 {
	if s.index == nil {
		return 0
	}
	key := newPairKey(a, b)
	if v, ok := s.cache.Get(key); ok {
		return v
	}
	v := Similarity(s.index, key.lo, key.hi)
	s.cache.Add(key, v)
	return v
}

// Len returns the number of cached pairs.
func (s *CachedScorer) Len() int {
	return s.cache.Len()
}
