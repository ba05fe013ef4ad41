package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func RegisterAuthTools(s *server.MCPServer) {
	loginTool := mcp.NewTool("carenote_login",
		mcp.WithDescription("Log in to the CareNote backend and hold the bearer token for later calls"),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
	)
	s.AddTool(loginTool, util.ErrorGuard(loginHandler))

	registerTool := mcp.NewTool("carenote_register",
		mcp.WithDescription("Create a CareNote account; logs in on success"),
		mcp.WithString("email", mcp.Required(), mcp.Description("Account email")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Display name")),
		mcp.WithString("password", mcp.Required(), mcp.Description("Account password")),
		mcp.WithString("password_confirm", mcp.Required(), mcp.Description("Password, repeated")),
	)
	s.AddTool(registerTool, util.ErrorGuard(registerHandler))

	logoutTool := mcp.NewTool("carenote_logout",
		mcp.WithDescription("Log out: local credentials are always cleared, even if the server call fails"),
	)
	s.AddTool(logoutTool, util.ErrorGuard(logoutHandler))
}

func loginHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	email, _ := stringArg(arguments, "email")
	password, _ := stringArg(arguments, "password")
	if strings.TrimSpace(email) == "" || password == "" {
		return fail("login", fmt.Errorf("email and password are required"))
	}

	defer trackBusy()()
	token, err := services.DefaultCareNoteClient().Login(ctx, email, password)
	if err != nil {
		return fail("login", err)
	}
	services.DefaultSession().SetToken(token)

	return succeed(fmt.Sprintf("Logged in as %s", email), nil)
}

func registerHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	arguments := request.Params.Arguments

	email, _ := stringArg(arguments, "email")
	name, _ := stringArg(arguments, "name")
	password, _ := stringArg(arguments, "password")
	confirm, _ := stringArg(arguments, "password_confirm")

	// Client-side validation happens before any network call.
	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" || password == "" {
		return fail("register", fmt.Errorf("email, name and password are required"))
	}
	if password != confirm {
		return fail("register", fmt.Errorf("passwords do not match"))
	}

	defer trackBusy()()
	token, err := services.DefaultCareNoteClient().Register(ctx, email, password, name)
	if err != nil {
		return fail("register", err)
	}
	services.DefaultSession().SetToken(token)

	return succeed(fmt.Sprintf("Registered and logged in as %s", email), nil)
}

func logoutHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session := services.DefaultSession()

	// Local credentials go away no matter what the server says.
	defer func() {
		session.Clear()
		services.DefaultStore().Reset()
	}()

	defer trackBusy()()
	if err := services.DefaultCareNoteClient().Logout(ctx); err != nil {
		util.Logger().WithField("error", err.Error()).Warn("server-side logout failed; clearing local session anyway")
		return mcp.NewToolResultText("Server-side logout failed, local session cleared"), nil
	}
	return succeed("Logged out", nil)
}
