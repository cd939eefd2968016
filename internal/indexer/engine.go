package indexer

import (
	"log/slog"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/logger"
)

// Engine answers AND-queries over an in-memory inverted index. Documents are
// added with Index during a bulk-load phase; Search only takes read locks and
// may be called concurrently.
type Engine struct {
	memIndex *index.MemoryIndex
	logger   *slog.Logger
}

func NewEngine() *Engine {
	return &Engine{
		memIndex: index.NewMemoryIndex(),
		logger:   logger.WithComponent("indexer"),
	}
}

// Index adds document under every term it contains. A document with no terms
// (empty or punctuation only) is not stored.
func (e *Engine) Index(document string) {
	terms := tokenizer.Split(document).Sorted()
	e.memIndex.AddDocument(document, terms)
	e.logger.Debug("document indexed",
		"term_count", len(terms),
		"docs", e.memIndex.DocCount(),
	)
}

// Search returns every document containing all of the query's indexed terms.
// Terms the index has never seen are ignored; if none of the query's terms
// are indexed the result is empty. Documents come back in the order they were
// first indexed, which carries no relevance meaning.
func (e *Engine) Search(query string) []string {
	terms := e.QueryTerms(query)
	postings := e.memIndex.Postings(terms)
	if len(postings) == 0 {
		return []string{}
	}
	return e.memIndex.Documents(intersect(postings))
}

// QueryTerms returns the query's normalised terms in lexical order,
// including ones the index does not know.
func (e *Engine) QueryTerms(query string) []string {
	return tokenizer.Split(query).Sorted()
}

func (e *Engine) DocCount() int {
	return e.memIndex.DocCount()
}

func (e *Engine) TermCount() int {
	return e.memIndex.TermCount()
}

// Terms lists indexed terms with the number of documents containing each.
func (e *Engine) Terms() []index.TermEntry {
	return e.memIndex.Snapshot()
}

// intersect ANDs the posting sets, smallest first so the running result
// shrinks as early as possible.
func intersect(postings []*roaring.Bitmap) *roaring.Bitmap {
	sort.Slice(postings, func(i, j int) bool {
		return postings[i].GetCardinality() < postings[j].GetCardinality()
	})
	result := postings[0]
	for _, p := range postings[1:] {
		if result.IsEmpty() {
			break
		}
		result.And(p)
	}
	return result
}
