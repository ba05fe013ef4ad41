package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carenote/carenote-mcp/pkg/carenote"
	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterDocumentTools(s *server.MCPServer) {
	listTool := mcp.NewTool("carenote_list_documents",
		mcp.WithDescription("List stored nursing-note documents, optionally filtered by a title substring"),
		mcp.WithString("filter", mcp.Description("Case-insensitive substring to match against document titles")),
	)
	s.AddTool(listTool, util.ErrorGuard(listDocumentsHandler))

	uploadTool := mcp.NewTool("carenote_upload_document",
		mcp.WithDescription("Upload a nursing narrative as a new document; extraction runs server-side and the document starts out pending"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Raw narrative text")),
	)
	s.AddTool(uploadTool, util.ErrorGuard(uploadDocumentHandler))

	viewTool := mcp.NewTool("carenote_view_document",
		mcp.WithDescription("Select a document and fetch its structured extraction"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
	)
	s.AddTool(viewTool, util.ErrorGuard(viewDocumentHandler))

	deleteTool := mcp.NewTool("carenote_delete_document",
		mcp.WithDescription("Delete a document. Requires confirm=true; a call without it only asks for confirmation"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document ID")),
		mcp.WithBoolean("confirm", mcp.Description("Set to true to actually delete")),
	)
	s.AddTool(deleteTool, util.ErrorGuard(deleteDocumentHandler))

	exportTool := mcp.NewTool("carenote_export_document",
		mcp.WithDescription("Export a document and write the blob to disk as <title>.<format>"),
		mcp.WithString("id", mcp.Description("Document ID (defaults to the selected document)")),
		mcp.WithString("format", mcp.Required(), mcp.Description("Export format, e.g. csv, json, pdf")),
	)
	s.AddTool(exportTool, util.ErrorGuard(exportDocumentHandler))

	reprocessTool := mcp.NewTool("carenote_reprocess_document",
		mcp.WithDescription("Ask the backend to re-run extraction for a completed or failed document"),
		mcp.WithString("id", mcp.Description("Document ID (defaults to the selected document)")),
	)
	s.AddTool(reprocessTool, util.ErrorGuard(reprocessDocumentHandler))
}

func listDocumentsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	client := services.DefaultCareNoteClient()
	store := services.DefaultStore()

	defer trackBusy()()
	docs, err := client.ListDocuments(ctx)
	if err != nil {
		return fail("listing documents", err)
	}
	store.ReplaceAll(docs)

	// Title filtering is a view concern; the store keeps the full list.
	filter, _ := stringArg(arguments, "filter")
	filter = strings.ToLower(strings.TrimSpace(filter))

	var out strings.Builder
	shown := 0
	for _, doc := range docs {
		if filter != "" && !strings.Contains(strings.ToLower(doc.Title), filter) {
			continue
		}
		shown++
		fmt.Fprintf(&out, "ID: %s\nTitle: %s\nStatus: %s\nUpdated: %s\n----------------------------------------\n",
			doc.ID, doc.Title, doc.Status, doc.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if shown == 0 {
		out.WriteString("No documents found")
	}
	return mcp.NewToolResultText(out.String()), nil
}

func uploadDocumentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	title, _ := stringArg(arguments, "title")
	text, _ := stringArg(arguments, "text")
	// Validation failures are caught before any network call.
	if strings.TrimSpace(title) == "" {
		return fail("upload", fmt.Errorf("title must not be empty"))
	}
	if strings.TrimSpace(text) == "" {
		return fail("upload", fmt.Errorf("narrative text must not be empty"))
	}

	defer trackBusy()()
	doc, err := services.DefaultCareNoteClient().CreateDocument(ctx, title, text)
	if err != nil {
		return fail("upload", err)
	}
	services.DefaultStore().Add(*doc)

	return succeed(fmt.Sprintf("Uploaded %q (status %s)", doc.Title, doc.Status), doc)
}

func viewDocumentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	id, ok := stringArg(arguments, "id")
	if !ok || id == "" {
		return fail("view", fmt.Errorf("id must be a non-empty string"))
	}

	client := services.DefaultCareNoteClient()
	store := services.DefaultStore()

	// Tag the selection so that, when the user switches documents while a
	// fetch is still in flight, only the newest selection wins.
	requestID := store.BeginSelection()

	defer trackBusy()()
	doc, err := client.GetDocument(ctx, id)
	if err != nil {
		return fail("view", err)
	}
	store.Upsert(*doc)

	ext, err := client.GetExtraction(ctx, id)
	if err != nil {
		return fail("view", err)
	}

	if !store.CompleteSelection(requestID, *doc, ext) {
		return mcp.NewToolResultText("Selection superseded by a newer one; view left unchanged"), nil
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Title: %s\nID: %s\nStatus: %s\n\nExtracted data:\n", doc.Title, doc.ID, doc.Status)
	out.WriteString(renderExtraction(ext))
	return mcp.NewToolResultText(out.String()), nil
}

func deleteDocumentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	id, ok := stringArg(arguments, "id")
	if !ok || id == "" {
		return fail("delete", fmt.Errorf("id must be a non-empty string"))
	}

	store := services.DefaultStore()
	if !boolArg(arguments, "confirm") {
		title := id
		if doc, found := store.Get(id); found {
			title = fmt.Sprintf("%q", doc.Title)
		}
		return mcp.NewToolResultText(fmt.Sprintf(
			"Deleting document %s is permanent. Call carenote_delete_document again with confirm=true to proceed.", title)), nil
	}

	client := services.DefaultCareNoteClient()

	defer trackBusy()()
	if err := client.DeleteDocument(ctx, id); err != nil {
		// Already gone server-side: drop it locally and refresh the list.
		if carenote.IsNotFound(err) {
			store.Remove(id)
			if docs, listErr := client.ListDocuments(ctx); listErr == nil {
				store.ReplaceAll(docs)
			}
			return succeed("Document was already deleted; list refreshed", nil)
		}
		return fail("delete", err)
	}

	store.Remove(id)
	return succeed(fmt.Sprintf("Deleted document %s", id), nil)
}

func exportDocumentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	store := services.DefaultStore()

	format, ok := stringArg(arguments, "format")
	if !ok || strings.TrimSpace(format) == "" {
		return fail("export", fmt.Errorf("format must be a non-empty string"))
	}

	id, _ := stringArg(arguments, "id")
	var doc carenote.Document
	if id == "" {
		selected, _, ok := store.Selected()
		if !ok {
			return fail("export", fmt.Errorf("no document selected and no id given"))
		}
		doc = selected
	} else if known, found := store.Get(id); found {
		doc = known
	} else {
		doc = carenote.Document{ID: id}
	}

	defer trackBusy()()
	data, filename, err := services.DefaultCareNoteClient().ExportDocument(ctx, doc.ID, doc.Title, format)
	if err != nil {
		return fail("export", err)
	}

	dir := os.Getenv("CARENOTE_EXPORT_DIR")
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fail("export", err)
	}

	// Export never mutates the store.
	return succeed(fmt.Sprintf("Exported %d bytes to %s", len(data), path), nil)
}

func reprocessDocumentHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments
	store := services.DefaultStore()

	id, _ := stringArg(arguments, "id")
	if id == "" {
		selected, _, ok := store.Selected()
		if !ok {
			return fail("reprocess", fmt.Errorf("no document selected and no id given"))
		}
		id = selected.ID
	}

	if doc, found := store.Get(id); found && !doc.Status.Reprocessable() {
		return fail("reprocess", fmt.Errorf("document %q is %s; reprocess is only available once processing has finished", doc.Title, doc.Status))
	}

	client := services.DefaultCareNoteClient()

	defer trackBusy()()
	if err := client.ReprocessDocument(ctx, id); err != nil {
		return fail("reprocess", err)
	}

	// Reprocessing restarts the pipeline; pick up the new status and the
	// re-extracted structured data.
	doc, err := client.GetDocument(ctx, id)
	if err != nil {
		return fail("reprocess", err)
	}
	store.Upsert(*doc)

	if selected, _, ok := store.Selected(); ok && selected.ID == id {
		ext, err := client.GetExtraction(ctx, id)
		if err != nil {
			return fail("reprocess", err)
		}
		store.SetExtraction(ext)
	}

	return succeed(fmt.Sprintf("Reprocessing %q (status %s)", doc.Title, doc.Status), nil)
}
