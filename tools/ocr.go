package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterOCRTools(s *server.MCPServer) {
	extractTool := mcp.NewTool("carenote_ocr_extract",
		mcp.WithDescription("OCR a scanned note image and return the recognized text without saving anything"),
		mcp.WithString("image_path", mcp.Required(), mcp.Description("Path to a local image file")),
	)
	s.AddTool(extractTool, util.ErrorGuard(ocrExtractHandler))

	processTool := mcp.NewTool("carenote_ocr_process",
		mcp.WithDescription("OCR a scanned note image and save the recognized narrative as a new document"),
		mcp.WithString("image_path", mcp.Required(), mcp.Description("Path to a local image file")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title for the new document")),
	)
	s.AddTool(processTool, util.ErrorGuard(ocrProcessHandler))

	batchTool := mcp.NewTool("carenote_ocr_batch",
		mcp.WithDescription("OCR several scanned note images in one request"),
		mcp.WithString("image_paths", mcp.Required(), mcp.Description("Comma-separated paths to local image files")),
	)
	s.AddTool(batchTool, util.ErrorGuard(ocrBatchHandler))
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func ocrExtractHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imagePath, _ := stringArg(request.Params.Arguments, "image_path")
	if imagePath == "" {
		return fail("ocr", fmt.Errorf("image_path must be a non-empty string"))
	}
	if err := checkReadable(imagePath); err != nil {
		return fail("ocr", err)
	}

	defer trackBusy()()
	result, err := services.DefaultCareNoteClient().OCRExtract(ctx, imagePath)
	if err != nil {
		return fail("ocr", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("Recognized text (confidence %.2f):\n%s", result.Confidence, result.Text)), nil
}

func ocrProcessHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	imagePath, _ := stringArg(arguments, "image_path")
	title, _ := stringArg(arguments, "title")
	if imagePath == "" || strings.TrimSpace(title) == "" {
		return fail("ocr", fmt.Errorf("image_path and title must be non-empty strings"))
	}
	if err := checkReadable(imagePath); err != nil {
		return fail("ocr", err)
	}

	defer trackBusy()()
	doc, err := services.DefaultCareNoteClient().OCRProcess(ctx, imagePath, title)
	if err != nil {
		return fail("ocr", err)
	}
	services.DefaultStore().Add(*doc)

	return succeed(fmt.Sprintf("Scanned %q into document %s (status %s)", title, doc.ID, doc.Status), doc)
}

func ocrBatchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, _ := stringArg(request.Params.Arguments, "image_paths")

	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return fail("ocr", fmt.Errorf("image_paths must name at least one file"))
	}
	for _, p := range paths {
		if err := checkReadable(p); err != nil {
			return fail("ocr", err)
		}
	}

	defer trackBusy()()
	results, err := services.DefaultCareNoteClient().OCRBatch(ctx, paths)
	if err != nil {
		return fail("ocr", err)
	}

	var out strings.Builder
	for _, r := range results {
		fmt.Fprintf(&out, "%s (confidence %.2f):\n%s\n----------------------------------------\n", r.Filename, r.Confidence, r.Text)
	}
	if out.Len() == 0 {
		out.WriteString("No OCR results returned")
	}
	return mcp.NewToolResultText(out.String()), nil
}
