package carenote

import "time"

// DocumentStatus tracks where a note sits in the backend extraction
// pipeline. Transitions are entirely server-driven.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Reprocessable reports whether the backend will accept a reprocess
// request for a document in this state.
func (s DocumentStatus) Reprocessable() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Document is a stored nursing narrative plus its processing status.
type Document struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	SourceText string         `json:"source_text"`
	Status     DocumentStatus `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Extraction is the structured clinical data the backend derives from a
// narrative. Fields is keyed by canonical category after normalization;
// values stay loosely typed because the backend schema is not fixed.
// DocumentID is empty for quick-extract results, which are never persisted.
type Extraction struct {
	DocumentID string                 `json:"document_id,omitempty"`
	Fields     map[string]interface{} `json:"fields"`
}

// Clone returns a deep copy of the extraction. The edit buffer relies on
// this so buffered changes never leak into the store's copy.
func (e *Extraction) Clone() *Extraction {
	if e == nil {
		return nil
	}
	return &Extraction{
		DocumentID: e.DocumentID,
		Fields:     deepCopyMap(e.Fields),
	}
}

func deepCopyMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepCopyMap(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// Statistics is a read-only aggregate snapshot. Absent fields decode to
// their zero values, which is exactly the required default.
type Statistics struct {
	TotalDocuments       int     `json:"total_documents"`
	CompletedDocuments   int     `json:"completed_documents"`
	FailedDocuments      int     `json:"failed_documents"`
	PendingDocuments     int     `json:"pending_documents"`
	AccuracyRate         float64 `json:"accuracy_rate"`
	AvgProcessingSeconds float64 `json:"avg_processing_seconds"`
}

// OCRResult is the backend's response to a single-image OCR call.
type OCRResult struct {
	Filename   string  `json:"filename"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
