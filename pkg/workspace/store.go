// Package workspace holds the client-side session state: the document
// collection, the single selected document with its extraction, the edit
// buffer, and transient notifications. It is the only shared mutable state
// in the process and every mutation goes through one mutex.
package workspace

import (
	"sync"

	"github.com/carenote/carenote-mcp/pkg/carenote"
	"github.com/carenote/carenote-mcp/pkg/metrics"
)

// Store is the in-memory document collection plus the currently selected
// (document, extraction) pair. Exactly one document may be selected at a
// time; selecting a new one replaces the prior extraction wholesale.
type Store struct {
	mu sync.Mutex

	documents []carenote.Document

	selected   *carenote.Document
	extraction *carenote.Extraction

	// Selection requests are tagged with a monotonically increasing id so
	// a stale response can never overwrite a newer selection.
	selectionSeq uint64

	busy bool
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceAll installs the result of a list fetch. The selection survives
// only if the selected id is still present.
func (s *Store) ReplaceAll(docs []carenote.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = make([]carenote.Document, len(docs))
	copy(s.documents, docs)
	metrics.DocumentsInStore.Set(float64(len(s.documents)))

	if s.selected == nil {
		return
	}
	for i := range s.documents {
		if s.documents[i].ID == s.selected.ID {
			doc := s.documents[i]
			s.selected = &doc
			return
		}
	}
	s.selected = nil
	s.extraction = nil
}

// Add appends a freshly created document to the collection.
func (s *Store) Add(doc carenote.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
	metrics.DocumentsInStore.Set(float64(len(s.documents)))
}

// Upsert refreshes one document in place, or appends it when unknown. The
// selected copy is kept in sync.
func (s *Store) Upsert(doc carenote.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.documents {
		if s.documents[i].ID == doc.ID {
			s.documents[i] = doc
			found = true
			break
		}
	}
	if !found {
		s.documents = append(s.documents, doc)
		metrics.DocumentsInStore.Set(float64(len(s.documents)))
	}
	if s.selected != nil && s.selected.ID == doc.ID {
		d := doc
		s.selected = &d
	}
}

// Documents returns a snapshot of the collection.
func (s *Store) Documents() []carenote.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]carenote.Document, len(s.documents))
	copy(out, s.documents)
	return out
}

// Get looks a document up by id.
func (s *Store) Get(id string) (carenote.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.documents {
		if s.documents[i].ID == id {
			return s.documents[i], true
		}
	}
	return carenote.Document{}, false
}

// BeginSelection registers intent to select a document and returns the
// request id to pass to CompleteSelection once the extraction fetch
// resolves.
func (s *Store) BeginSelection() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectionSeq++
	return s.selectionSeq
}

// CompleteSelection installs the fetched (document, extraction) pair if the
// request id is still the newest selection. Stale responses are dropped, so
// overlapping selections always resolve to the last one the user issued.
// A response for a document deleted in the meantime is dropped too.
// It reports whether the selection was installed.
func (s *Store) CompleteSelection(requestID uint64, doc carenote.Document, ext *carenote.Extraction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if requestID != s.selectionSeq {
		metrics.StaleSelectionsDropped.Inc()
		return false
	}
	for i := range s.documents {
		if s.documents[i].ID == doc.ID {
			d := doc
			s.selected = &d
			s.extraction = ext
			return true
		}
	}
	metrics.StaleSelectionsDropped.Inc()
	return false
}

// Selected returns the selected document and its extraction, or false when
// nothing is selected.
func (s *Store) Selected() (carenote.Document, *carenote.Extraction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return carenote.Document{}, nil, false
	}
	return *s.selected, s.extraction, true
}

// SetExtraction replaces the selected document's extraction (after a save
// returned the server's fresh copy, or after a reprocess re-fetch).
func (s *Store) SetExtraction(ext *carenote.Extraction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != nil {
		s.extraction = ext
	}
}

// Remove drops a document from the collection. When the removed id is the
// selected one, the selection and extraction are cleared in the same
// critical section so no reader ever sees a half-cleared view.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.documents[:0]
	for _, doc := range s.documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	s.documents = kept
	metrics.DocumentsInStore.Set(float64(len(s.documents)))

	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
		s.extraction = nil
	}
}

// ClearSelection drops the selected pair without touching the collection.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
	s.extraction = nil
}

// Reset empties the whole store (used on logout).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = nil
	s.selected = nil
	s.extraction = nil
	metrics.DocumentsInStore.Set(0)
}

// SetBusy flips the global loading flag for the duration of a gateway
// call. Independent actions are not serialized against it; it only feeds
// the session status view.
func (s *Store) SetBusy(busy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = busy
}

func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
