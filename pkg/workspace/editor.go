package workspace

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/carenote/carenote-mcp/pkg/carenote"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Editor is a transient edit buffer over one extraction. Begin snapshots
// the store's copy; setters mutate only the buffer; Save sends the whole
// buffer (the caller does the network round-trip) and Cancel discards it,
// leaving the store's last-known extraction untouched.
type Editor struct {
	mu       sync.Mutex
	snapshot *carenote.Extraction
	buffer   *carenote.Extraction
}

func NewEditor() *Editor {
	return &Editor{}
}

// Begin enters edit mode over the given extraction. A second Begin without
// an intervening Save/Cancel is an error.
func (e *Editor) Begin(ext *carenote.Extraction) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer != nil {
		return fmt.Errorf("an edit is already in progress; save or cancel it first")
	}
	if ext == nil {
		return fmt.Errorf("no extraction to edit")
	}
	e.snapshot = ext.Clone()
	e.buffer = ext.Clone()
	return nil
}

// Active reports whether an edit is in progress.
func (e *Editor) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer != nil
}

// SetField mutates a single category/field path in the buffer. A missing
// category block is created as an object; setting a field on a category
// that is not an object is an error.
func (e *Editor) SetField(category, field string, value interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer == nil {
		return fmt.Errorf("no edit in progress")
	}
	if e.buffer.Fields == nil {
		e.buffer.Fields = map[string]interface{}{}
	}

	block, exists := e.buffer.Fields[category]
	if !exists || block == nil {
		block = map[string]interface{}{}
		e.buffer.Fields[category] = block
	}
	obj, ok := block.(map[string]interface{})
	if !ok {
		return fmt.Errorf("category %q does not hold named fields; use set_category to replace it", category)
	}
	obj[field] = value
	return nil
}

// SetCategory replaces one whole category block in the buffer.
func (e *Editor) SetCategory(category string, value interface{}) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer == nil {
		return fmt.Errorf("no edit in progress")
	}
	if e.buffer.Fields == nil {
		e.buffer.Fields = map[string]interface{}{}
	}
	e.buffer.Fields[category] = value
	return nil
}

// Buffer returns a copy of the current buffer for saving. Save semantics
// are whole-buffer, not a diff.
func (e *Editor) Buffer() (*carenote.Extraction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer == nil {
		return nil, fmt.Errorf("no edit in progress")
	}
	return e.buffer.Clone(), nil
}

// Finish leaves edit mode after a successful save.
func (e *Editor) Finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshot = nil
	e.buffer = nil
}

// Cancel discards the buffer. No network call happens here and the store's
// extraction is left exactly as it was before the edit began.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer == nil {
		return fmt.Errorf("no edit in progress")
	}
	e.snapshot = nil
	e.buffer = nil
	return nil
}

// Diff renders a line-oriented semantic diff between the snapshot and the
// buffered changes, in the same -/+ style the rest of the product uses.
func (e *Editor) Diff() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.buffer == nil {
		return "", fmt.Errorf("no edit in progress")
	}

	before := renderFields(e.snapshot)
	after := renderFields(e.buffer)

	// Diff line-by-line so a changed value shows up as a whole removed
	// line plus a whole added line, not character fragments.
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lines := dmp.DiffLinesToChars(before+"\n", after+"\n")
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var result strings.Builder
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			result.WriteString(prefix + line + "\n")
		}
	}
	return result.String(), nil
}

// renderFields produces a stable textual form of an extraction for
// diffing. json.Marshal sorts map keys, which keeps the output stable.
func renderFields(ext *carenote.Extraction) string {
	if ext == nil || ext.Fields == nil {
		return ""
	}
	bs, err := json.MarshalIndent(ext.Fields, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", ext.Fields)
	}
	return string(bs)
}
