package carenote

import (
	"context"
	"net/http"
	"net/url"
)

// GetExtraction fetches the structured data for a document and normalizes
// the category keys at the gateway boundary.
func (c *Client) GetExtraction(ctx context.Context, docID string) (*Extraction, error) {
	raw, err := c.do(ctx, "get_extraction", http.MethodGet, "/api/documents/"+url.PathEscape(docID)+"/structured", nil, "")
	if err != nil {
		return nil, err
	}
	ext := NormalizeExtraction(raw)
	if ext.DocumentID == "" {
		ext.DocumentID = docID
	}
	return ext, nil
}

// UpdateExtraction sends the whole edited buffer (not a diff) to the
// backend and returns the server's fresh copy. Last writer wins; no
// version token is exchanged.
func (c *Client) UpdateExtraction(ctx context.Context, docID string, fields map[string]interface{}) (*Extraction, error) {
	body, err := jsonBody("update_extraction", fields)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, "update_extraction", http.MethodPut,
		"/api/documents/"+url.PathEscape(docID)+"/structured", body, "application/json")
	if err != nil {
		return nil, err
	}
	ext := NormalizeExtraction(raw)
	if ext.DocumentID == "" {
		ext.DocumentID = docID
	}
	return ext, nil
}

// QuickExtract runs extraction against pasted text without persisting a
// document. The result is ephemeral: DocumentID stays empty.
func (c *Client) QuickExtract(ctx context.Context, text string) (*Extraction, error) {
	body, err := jsonBody("quick_extract", map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, "quick_extract", http.MethodPost, "/api/extract", body, "application/json")
	if err != nil {
		return nil, err
	}
	ext := NormalizeExtraction(raw)
	ext.DocumentID = ""
	return ext, nil
}
