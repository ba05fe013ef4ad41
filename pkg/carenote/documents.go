package carenote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ListDocuments fetches every stored document. The backend has returned
// both a bare array and a {"documents": [...]} wrapper across versions, so
// both shapes decode.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	raw, err := c.do(ctx, "list_documents", http.MethodGet, "/api/documents", nil, "")
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Documents []Document `json:"documents"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Documents != nil {
		return wrapped.Documents, nil
	}

	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, errors.Wrap(err, "decode document list")
	}
	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := c.getJSON(ctx, "get_document", "/api/documents/"+url.PathEscape(id), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDocument uploads a new narrative. The returned document starts out
// pending; the backend drives all later status transitions.
func (c *Client) CreateDocument(ctx context.Context, title, text string) (*Document, error) {
	body := map[string]string{"title": title, "text": text}
	var doc Document
	if err := c.sendJSON(ctx, "create_document", http.MethodPost, "/api/documents", body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete_document", http.MethodDelete, "/api/documents/"+url.PathEscape(id), nil, "")
	return err
}

// ExportDocument downloads the document in the requested format. The
// filename is chosen client-side as <title>.<format>.
func (c *Client) ExportDocument(ctx context.Context, id, title, format string) (data []byte, filename string, err error) {
	path := fmt.Sprintf("/api/documents/%s/export?format=%s", url.PathEscape(id), url.QueryEscape(format))
	data, err = c.do(ctx, "export_document", http.MethodGet, path, nil, "")
	if err != nil {
		return nil, "", err
	}
	return data, ExportFilename(title, format), nil
}

// ExportFilename builds the client-chosen download name <title>.<format>.
// Path separators in the title are flattened so the name stays a plain file.
func ExportFilename(title, format string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "export"
	}
	title = strings.NewReplacer("/", "-", "\\", "-").Replace(title)
	return title + "." + strings.ToLower(strings.TrimPrefix(format, "."))
}

// ReprocessDocument asks the backend to re-run extraction. Only meaningful
// from completed or failed; the backend rejects other states.
func (c *Client) ReprocessDocument(ctx context.Context, id string) error {
	_, err := c.do(ctx, "reprocess_document", http.MethodPost, "/api/documents/"+url.PathEscape(id)+"/reprocess", nil, "")
	return err
}
