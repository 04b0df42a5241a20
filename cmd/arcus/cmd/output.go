package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	arcuserr "github.com/atistler/arcus/pkg/core/error"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	targetStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSecondary)

	actionStyle = lipgloss.NewStyle().
			Width(14).
			PaddingLeft(2)

	asyncStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// printError writes a one-line, user-facing rendering of err
func printError(w io.Writer, err error) {
	var msg string
	switch arcuserr.CodeOf(err) {
	case arcuserr.CodeNetworkTimeout:
		msg = "Timeout connecting to " + arcuserr.Endpoint(err)
	case arcuserr.CodeRemote:
		msg = fmt.Sprintf("Request failed with status %d", arcuserr.Status(err))
		if text := remoteErrorText(arcuserr.Body(err)); text != "" {
			msg += ": " + text
		}
	case arcuserr.CodeConfiguration:
		msg = "Configuration error: " + err.Error()
	default:
		msg = "Error: " + err.Error()
	}
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// remoteErrorText pulls errortext out of a {"<command>response": {...}}
// error body
func remoteErrorText(body []byte) string {
	var doc map[string]map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, inner := range doc {
		if text, ok := inner["errortext"].(string); ok {
			return text
		}
	}
	return ""
}
