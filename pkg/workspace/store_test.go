package workspace

import (
	"testing"

	"github.com/carenote/carenote-mcp/pkg/carenote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id, title string) carenote.Document {
	return carenote.Document{ID: id, Title: title, Status: carenote.StatusCompleted}
}

func ext(docID string) *carenote.Extraction {
	return &carenote.Extraction{
		DocumentID: docID,
		Fields:     map[string]interface{}{"symptoms": []interface{}{"fever"}},
	}
}

func TestReplaceAllKeepsSelectionWhenStillPresent(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A"), doc("b", "B")})

	id := store.BeginSelection()
	require.True(t, store.CompleteSelection(id, doc("a", "A"), ext("a")))

	store.ReplaceAll([]carenote.Document{doc("a", "A renamed"), doc("c", "C")})
	selected, _, ok := store.Selected()
	require.True(t, ok)
	assert.Equal(t, "A renamed", selected.Title)

	store.ReplaceAll([]carenote.Document{doc("c", "C")})
	_, _, ok = store.Selected()
	assert.False(t, ok, "selection must clear when the document disappears from the list")
}

func TestLastSelectionWins(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A"), doc("b", "B")})

	// User selects A, then B while A's extraction fetch is still in
	// flight. A's response resolves last but must not win.
	selA := store.BeginSelection()
	selB := store.BeginSelection()

	require.True(t, store.CompleteSelection(selB, doc("b", "B"), ext("b")))
	assert.False(t, store.CompleteSelection(selA, doc("a", "A"), ext("a")),
		"stale selection response must be dropped")

	selected, installed, ok := store.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", selected.ID)
	assert.Equal(t, "b", installed.DocumentID)
}

func TestCompleteSelectionRejectsDeletedDocument(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A")})

	sel := store.BeginSelection()
	store.Remove("a")

	assert.False(t, store.CompleteSelection(sel, doc("a", "A"), ext("a")))
	_, _, ok := store.Selected()
	assert.False(t, ok)
}

func TestRemoveSelectedClearsSelectionAtomically(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A"), doc("b", "B")})

	sel := store.BeginSelection()
	require.True(t, store.CompleteSelection(sel, doc("a", "A"), ext("a")))

	store.Remove("a")

	assert.Len(t, store.Documents(), 1)
	_, installed, ok := store.Selected()
	assert.False(t, ok, "selection must be cleared")
	assert.Nil(t, installed, "extraction must be cleared with the selection")
}

func TestRemoveUnselectedKeepsSelection(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A"), doc("b", "B")})

	sel := store.BeginSelection()
	require.True(t, store.CompleteSelection(sel, doc("a", "A"), ext("a")))

	store.Remove("b")

	selected, _, ok := store.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", selected.ID)
}

func TestUpsertSyncsSelectedCopy(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A")})

	sel := store.BeginSelection()
	require.True(t, store.CompleteSelection(sel, doc("a", "A"), ext("a")))

	updated := doc("a", "A")
	updated.Status = carenote.StatusProcessing
	store.Upsert(updated)

	selected, _, ok := store.Selected()
	require.True(t, ok)
	assert.Equal(t, carenote.StatusProcessing, selected.Status)
}

func TestSetExtractionRequiresSelection(t *testing.T) {
	store := NewStore()
	store.SetExtraction(ext("ghost"))
	_, installed, ok := store.Selected()
	assert.False(t, ok)
	assert.Nil(t, installed)
}

func TestBusyFlag(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Busy())
	store.SetBusy(true)
	assert.True(t, store.Busy())
	store.SetBusy(false)
	assert.False(t, store.Busy())
}

func TestResetEmptiesEverything(t *testing.T) {
	store := NewStore()
	store.ReplaceAll([]carenote.Document{doc("a", "A")})
	sel := store.BeginSelection()
	require.True(t, store.CompleteSelection(sel, doc("a", "A"), ext("a")))

	store.Reset()

	assert.Empty(t, store.Documents())
	_, _, ok := store.Selected()
	assert.False(t, ok)
}
