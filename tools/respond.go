package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/carenote/carenote-mcp/pkg/carenote"
	"github.com/carenote/carenote-mcp/pkg/workspace"
	"github.com/carenote/carenote-mcp/services"
	"github.com/carenote/carenote-mcp/util"
	"github.com/mark3labs/mcp-go/mcp"
)

func stringArg(arguments map[string]interface{}, key string) (string, bool) {
	v, ok := arguments[key].(string)
	return v, ok
}

func boolArg(arguments map[string]interface{}, key string) bool {
	v, _ := arguments[key].(bool)
	return v
}

// trackBusy flips the store's loading flag for the duration of a gateway
// call. Callers defer the returned func.
func trackBusy() func() {
	store := services.DefaultStore()
	store.SetBusy(true)
	return func() { store.SetBusy(false) }
}

// succeed pushes a success notification and renders the payload as an
// indented JSON tool result.
func succeed(message string, payload interface{}) (*mcp.CallToolResult, error) {
	services.DefaultNotifier().Push(workspace.LevelSuccess, message)
	if payload == nil {
		return mcp.NewToolResultText(message), nil
	}
	rendered, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(message + "\n\n" + string(rendered)), nil
}

// fail surfaces a gateway or validation failure as a dismissible
// notification plus a tool error. Expired sessions (401/403) additionally
// force a local logout; nothing is retried and every failure leaves the
// session in a stable state.
func fail(action string, err error) (*mcp.CallToolResult, error) {
	message := fmt.Sprintf("%s failed: %v", action, err)

	if carenote.IsAuthError(err) {
		services.DefaultSession().Clear()
		services.DefaultStore().Reset()
		message = fmt.Sprintf("%s failed: your session has expired, please log in again", action)
	}

	services.DefaultNotifier().Push(workspace.LevelError, message)
	util.Logger().WithField("action", action).Warn(message)
	return mcp.NewToolResultError(message), nil
}

func decodeJSONValue(raw string) (interface{}, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, err
	}
	return value, nil
}

// renderExtraction prints the known clinical categories first, in a fixed
// order, then whatever extra keys the backend sent.
var categoryOrder = []string{
	"vital_signs", "symptoms", "medications", "pain_assessment",
	"consciousness_level", "mobility", "interventions",
}

func renderExtraction(ext *carenote.Extraction) string {
	if ext == nil || len(ext.Fields) == 0 {
		return "(no structured data)"
	}

	var out strings.Builder
	writeBlock := func(key string) {
		value, exists := ext.Fields[key]
		if !exists {
			return
		}
		rendered, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			rendered = []byte(fmt.Sprintf("%v", value))
		}
		fmt.Fprintf(&out, "%s:\n%s\n", key, rendered)
	}

	for _, key := range categoryOrder {
		writeBlock(key)
	}

	var extras []string
	for key := range ext.Fields {
		if !carenote.CanonicalCategories.Contains(key) {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		writeBlock(key)
	}
	return out.String()
}
