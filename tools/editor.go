package tools

import (
	"context"
	"fmt"

	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterEditorTools(s *server.MCPServer) {
	beginTool := mcp.NewTool("carenote_edit_begin",
		mcp.WithDescription("Start correcting the selected document's extraction; snapshots the current data into an edit buffer"),
	)
	s.AddTool(beginTool, util.ErrorGuard(editBeginHandler))

	setFieldTool := mcp.NewTool("carenote_edit_set_field",
		mcp.WithDescription("Set a single field inside one clinical category of the edit buffer"),
		mcp.WithString("category", mcp.Required(), mcp.Description("Clinical category, e.g. vital_signs, medications")),
		mcp.WithString("field", mcp.Required(), mcp.Description("Field name inside the category, e.g. blood_pressure")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value for the field")),
	)
	s.AddTool(setFieldTool, util.ErrorGuard(editSetFieldHandler))

	setCategoryTool := mcp.NewTool("carenote_edit_set_category",
		mcp.WithDescription("Replace one whole category block of the edit buffer with a JSON value"),
		mcp.WithString("category", mcp.Required(), mcp.Description("Clinical category to replace")),
		mcp.WithString("value_json", mcp.Required(), mcp.Description("Replacement value as JSON, e.g. [\"fever\",\"cough\"]")),
	)
	s.AddTool(setCategoryTool, util.ErrorGuard(editSetCategoryHandler))

	diffTool := mcp.NewTool("carenote_edit_diff",
		mcp.WithDescription("Show the buffered corrections against the pre-edit snapshot"),
	)
	s.AddTool(diffTool, util.ErrorGuard(editDiffHandler))

	saveTool := mcp.NewTool("carenote_edit_save",
		mcp.WithDescription("Save the whole edit buffer to the backend and install the server's fresh copy"),
	)
	s.AddTool(saveTool, util.ErrorGuard(editSaveHandler))

	cancelTool := mcp.NewTool("carenote_edit_cancel",
		mcp.WithDescription("Discard the edit buffer; the last-known extraction stays untouched and nothing is sent"),
	)
	s.AddTool(cancelTool, util.ErrorGuard(editCancelHandler))
}

func editBeginHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := services.DefaultStore()

	doc, ext, ok := store.Selected()
	if !ok {
		return fail("edit", fmt.Errorf("no document selected; view a document first"))
	}
	if ext == nil {
		return fail("edit", fmt.Errorf("document %q has no extraction to edit", doc.Title))
	}
	if err := services.DefaultEditor().Begin(ext); err != nil {
		return fail("edit", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Editing extraction of %q. Buffered fields:\n%s", doc.Title, renderExtraction(ext))), nil
}

func editSetFieldHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	category, _ := stringArg(arguments, "category")
	field, _ := stringArg(arguments, "field")
	value, _ := stringArg(arguments, "value")
	if category == "" || field == "" {
		return fail("edit", fmt.Errorf("category and field must be non-empty strings"))
	}

	if err := services.DefaultEditor().SetField(category, field, value); err != nil {
		return fail("edit", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Set %s.%s = %q in the edit buffer", category, field, value)), nil
}

func editSetCategoryHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	category, _ := stringArg(arguments, "category")
	valueJSON, _ := stringArg(arguments, "value_json")
	if category == "" || valueJSON == "" {
		return fail("edit", fmt.Errorf("category and value_json must be non-empty strings"))
	}

	value, err := decodeJSONValue(valueJSON)
	if err != nil {
		return fail("edit", fmt.Errorf("value_json is not valid JSON: %v", err))
	}
	if err := services.DefaultEditor().SetCategory(category, value); err != nil {
		return fail("edit", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Replaced category %s in the edit buffer", category)), nil
}

func editDiffHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diff, err := services.DefaultEditor().Diff()
	if err != nil {
		return fail("edit", err)
	}
	return mcp.NewToolResultText("Buffered changes:\n=================\n" + diff), nil
}

func editSaveHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := services.DefaultStore()
	editor := services.DefaultEditor()

	doc, _, ok := store.Selected()
	if !ok {
		return fail("save", fmt.Errorf("no document selected"))
	}
	buffer, err := editor.Buffer()
	if err != nil {
		return fail("save", err)
	}

	defer trackBusy()()
	// The whole buffer goes out; last writer wins.
	fresh, err := services.DefaultCareNoteClient().UpdateExtraction(ctx, doc.ID, buffer.Fields)
	if err != nil {
		return fail("save", err)
	}

	store.SetExtraction(fresh)
	editor.Finish()
	return succeed(fmt.Sprintf("Saved corrections to %q", doc.Title), nil)
}

func editCancelHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := services.DefaultEditor().Cancel(); err != nil {
		return fail("edit", err)
	}
	// No network call: the store still holds the pre-edit extraction.
	return mcp.NewToolResultText("Edit cancelled; buffered changes discarded"), nil
}
