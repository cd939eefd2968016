// Package benchmark contains Go benchmarks for the tokenizer, the memory
// index and the search engine.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/indexer/index"
)

var docTerms = []string{"conjunctive", "engine", "index", "inverted", "posting", "query", "search"}

func newPopulatedIndex(numDocs int) *index.MemoryIndex {
	mi := index.NewMemoryIndex()
	for i := 0; i < numDocs; i++ {
		doc := fmt.Sprintf("doc-%d search engine with inverted index", i)
		terms := append([]string{fmt.Sprintf("doc-%d", i)}, docTerms...)
		if i%10 == 0 {
			terms = append(terms, "rare")
		}
		mi.AddDocument(doc, terms)
	}
	return mi
}

// BenchmarkMemoryIndexAdd measures per-document insert throughput.
func BenchmarkMemoryIndexAdd(b *testing.B) {
	mi := index.NewMemoryIndex()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := fmt.Sprintf("doc-%d search engine with inverted index", i)
		mi.AddDocument(doc, append([]string{fmt.Sprintf("doc-%d", i)}, docTerms...))
	}
}

// BenchmarkMemoryIndexAddDuplicate measures re-adding a document that is
// already stored.
func BenchmarkMemoryIndexAddDuplicate(b *testing.B) {
	mi := newPopulatedIndex(1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mi.AddDocument("doc-1 search engine with inverted index", append([]string{"doc-1"}, docTerms...))
	}
}

func BenchmarkMemoryIndexPostings(b *testing.B) {
	for _, numDocs := range []int{1000, 10000, 100000} {
		mi := newPopulatedIndex(numDocs)
		b.Run(fmt.Sprintf("docs_%d", numDocs), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				postings := mi.Postings([]string{"search", "rare", "unknown"})
				_ = postings
			}
		})
	}
}

// BenchmarkMemoryIndexPostingsParallel measures concurrent read throughput.
func BenchmarkMemoryIndexPostingsParallel(b *testing.B) {
	mi := newPopulatedIndex(10000)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			postings := mi.Postings([]string{"search", "engine"})
			_ = postings
		}
	})
}
