// internal/text/provider.go
package text

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// Provider hands out the passage both participants of a room will type.
type Provider interface {
	GetText(languageID string) string
	Supports(languageID string) bool
}

// CorpusProvider builds passages by joining random corpus sentences until the
// passage holds at least minWords words. Passage length does not depend on race duration.
type CorpusProvider struct {
	corpus   Corpus
	minWords int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewCorpusProvider returns a provider over corpus. A non-positive minWords means a single sentence.
func NewCorpusProvider(corpus Corpus, minWords int) *CorpusProvider {
	seed := uint64(time.Now().UnixNano())
	return NewSeededCorpusProvider(corpus, minWords, seed)
}

// NewSeededCorpusProvider is NewCorpusProvider with a fixed seed, for reproducible passages.
func NewSeededCorpusProvider(corpus Corpus, minWords int, seed uint64) *CorpusProvider {
	return &CorpusProvider{
		corpus:   corpus,
		minWords: minWords,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Supports reports whether the corpus has sentences for languageID.
func (p *CorpusProvider) Supports(languageID string) bool {
	return len(p.corpus[languageID]) > 0
}

// GetText returns one passage. Unknown languages fall back to DefaultLanguage.
func (p *CorpusProvider) GetText(languageID string) string {
	sentences := p.corpus[languageID]
	if len(sentences) == 0 {
		sentences = p.corpus[DefaultLanguage]
	}
	if len(sentences) == 0 {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var parts []string
	words := 0
	for {
		s := sentences[p.rng.IntN(len(sentences))]
		parts = append(parts, s)
		words += len(strings.Fields(s))
		if words >= p.minWords {
			break
		}
	}
	return strings.Join(parts, " ")
}
