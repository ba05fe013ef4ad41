package carenote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) BearerToken() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, opts...)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, WithTokenSource(staticToken("tok-123")))

	_, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientWithoutTokenIsNotAnError(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}, WithTokenSource(staticToken("")))

	_, err := client.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestUpdateExtractionReportsUnencodableBody(t *testing.T) {
	var hits int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{}`))
	})

	// A channel cannot be marshaled; the error must surface before any
	// request goes out.
	_, err := client.UpdateExtraction(context.Background(), "doc-1",
		map[string]interface{}{"vital_signs": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode update_extraction body")
	assert.Zero(t, hits)
}

func TestClientTranslatesHTTPFailures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "no such document"}`))
	})

	_, err := client.GetDocument(context.Background(), "missing")
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok, "expected an *APIError, got %T", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "no such document", apiErr.Message)
	assert.True(t, IsNotFound(err))
}

func TestClientHandles204(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteDocument(context.Background(), "doc-1"))
}

func TestListDocumentsDecodesBothShapes(t *testing.T) {
	bare := `[{"id":"a","title":"Night Shift"}]`
	wrapped := `{"documents":[{"id":"a","title":"Night Shift"}]}`

	for name, payload := range map[string]string{"bare": bare, "wrapped": wrapped} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		})
		docs, err := client.ListDocuments(context.Background())
		require.NoError(t, err, name)
		require.Len(t, docs, 1, name)
		assert.Equal(t, "Night Shift", docs[0].Title, name)
	}
}

func TestUpdateExtractionSendsWholeBuffer(t *testing.T) {
	var sent map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &sent))
		_, _ = w.Write([]byte(`{"vital_signs": {"hr": "76"}}`))
	})

	fields := map[string]interface{}{
		"vital_signs": map[string]interface{}{"hr": "76"},
		"symptoms":    []interface{}{"fever"},
	}
	fresh, err := client.UpdateExtraction(context.Background(), "doc-1", fields)
	require.NoError(t, err)

	// The whole buffer goes out, untouched categories included.
	assert.Contains(t, sent, "vital_signs")
	assert.Contains(t, sent, "symptoms")

	assert.Equal(t, "doc-1", fresh.DocumentID)
	assert.Contains(t, fresh.Fields, "vital_signs")
}

func TestQuickExtractIsEphemeral(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"document_id": "should-be-ignored", "vitals": {"bp": "150/90"}}`))
	})

	ext, err := client.QuickExtract(context.Background(), "BP 150/90, HR 102")
	require.NoError(t, err)
	assert.Empty(t, ext.DocumentID, "quick extract must never reference a persisted document")
	assert.Contains(t, ext.Fields, "vital_signs")
}

func TestExportDocumentNamesBlob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte("col1,col2\n"))
	})

	data, filename, err := client.ExportDocument(context.Background(), "doc-1", "Night Shift 3/1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "Night Shift 3-1.csv", filename)
	assert.Equal(t, "col1,col2\n", string(data))
}

func TestExportFilename(t *testing.T) {
	cases := []struct {
		title, format, want string
	}{
		{"Night Shift 3/1", "csv", "Night Shift 3-1.csv"},
		{"plain", "JSON", "plain.json"},
		{"  ", "csv", "export.csv"},
		{"dotted", ".pdf", "dotted.pdf"},
	}
	for _, c := range cases {
		if got := ExportFilename(c.title, c.format); got != c.want {
			t.Errorf("ExportFilename(%q, %q) = %q, want %q", c.title, c.format, got, c.want)
		}
	}
}

func TestOCRExtractUploadsMultipart(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("fake image bytes"), 0o644))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 1)
		assert.Equal(t, "scan.png", files[0].Filename)
		_, _ = w.Write([]byte(`{"filename": "scan.png", "text": "Pt awake", "confidence": 0.93}`))
	})

	result, err := client.OCRExtract(context.Background(), imagePath)
	require.NoError(t, err)
	assert.Equal(t, "Pt awake", result.Text)
	assert.InDelta(t, 0.93, result.Confidence, 1e-9)
}

func TestStatisticsDefaultsToZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_documents": 12}`))
	})

	stats, err := client.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalDocuments)
	assert.Zero(t, stats.AccuracyRate)
	assert.Zero(t, stats.AvgProcessingSeconds)
	assert.Zero(t, stats.FailedDocuments)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &creds))
		assert.Equal(t, "nurse@example.org", creds["email"])
		_, _ = w.Write([]byte(`{"access_token": "at", "refresh_token": "rt", "expires_in": 3600}`))
	})

	token, err := client.Login(context.Background(), "nurse@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "at", token.AccessToken)
	assert.Equal(t, "rt", token.RefreshToken)
	assert.False(t, token.Expiry.IsZero())
}
