// Package index holds the in-memory inverted index: a table of distinct
// documents and, per term, a bitmap of the ordinals of documents containing
// that term.
package index

import (
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// Ordinal identifies a distinct document inside a MemoryIndex. Ordinals are
// assigned in the order documents are first seen.
type Ordinal = uint32

// TermEntry is one row of a Snapshot.
type TermEntry struct {
	Term      string
	Documents int
}

// MemoryIndex maps terms to document sets. Documents are deduplicated by
// content: adding a byte-identical document again reuses its ordinal.
type MemoryIndex struct {
	mu       sync.RWMutex
	index    map[string]*roaring.Bitmap
	docs     []string
	ordinals map[string]Ordinal
	size     int64
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index:    make(map[string]*roaring.Bitmap),
		ordinals: make(map[string]Ordinal),
	}
}

// AddDocument records doc under every term. The write lock is held for the
// whole insertion so readers never see a document under only some of its
// terms.
func (m *MemoryIndex) AddDocument(doc string, terms []string) {
	if len(terms) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ord, exists := m.ordinals[doc]
	if !exists {
		ord = Ordinal(len(m.docs))
		m.docs = append(m.docs, doc)
		m.ordinals[doc] = ord
		m.size += int64(len(doc))
	}
	for _, term := range terms {
		postings, ok := m.index[term]
		if !ok {
			postings = roaring.New()
			m.index[term] = postings
			m.size += int64(len(term) + 64)
		}
		postings.Add(ord)
	}
}

// Postings returns a copy of the posting bitmap for every term present in
// the index. Terms the index has never seen are skipped, so every returned
// bitmap belongs to a known term. The copies are safe to mutate.
func (m *MemoryIndex) Postings(terms []string) []*roaring.Bitmap {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*roaring.Bitmap, 0, len(terms))
	for _, term := range terms {
		if postings, ok := m.index[term]; ok {
			result = append(result, postings.Clone())
		}
	}
	return result
}

// Documents resolves ordinals back to document text in ascending ordinal
// order.
func (m *MemoryIndex) Documents(ords *roaring.Bitmap) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]string, 0, ords.GetCardinality())
	it := ords.Iterator()
	for it.HasNext() {
		ord := it.Next()
		if int(ord) < len(m.docs) {
			result = append(result, m.docs[ord])
		}
	}
	return result
}

// Contains reports whether term has a posting set.
func (m *MemoryIndex) Contains(term string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[term]
	return ok
}

// Snapshot lists every term with its document count, sorted by term.
func (m *MemoryIndex) Snapshot() []TermEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := make([]TermEntry, 0, len(m.index))
	for term, postings := range m.index {
		entries = append(entries, TermEntry{
			Term:      term,
			Documents: int(postings.GetCardinality()),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}

// Size is a rough estimate of the bytes held by document text and term keys.
func (m *MemoryIndex) Size() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

func (m *MemoryIndex) DocCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func (m *MemoryIndex) TermCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}
