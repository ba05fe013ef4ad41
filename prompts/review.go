package prompts

import (
	"context"
	"fmt"

	"github.com/carenote/carenote-mcp/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterReviewPrompts(s *server.MCPServer) {
	prompt := mcp.NewPrompt("note_review",
		mcp.WithPromptDescription("Review the selected document's extraction against its raw narrative"),
		mcp.WithArgument("focus", mcp.ArgumentDescription("Optional clinical category to focus on, e.g. medications")),
	)
	s.AddPrompt(prompt, noteReviewHandler)
}

func noteReviewHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := request.Params.Arguments["focus"]

	doc, _, ok := services.DefaultStore().Selected()
	if !ok {
		return nil, fmt.Errorf("no document selected; view a document first")
	}

	instruction := fmt.Sprintf(
		"Use carenote_view_document with id %q to read the extraction, compare it against the raw narrative, and flag any field that does not match the text. Correct mistakes with the carenote_edit tools.", doc.ID)
	if focus != "" {
		instruction += fmt.Sprintf(" Focus on the %s category.", focus)
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Extraction review for %q", doc.Title),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: instruction,
				},
			},
		},
	}, nil
}
