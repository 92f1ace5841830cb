package format

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"reqwestur/internal/model"
)

// sanitizeOutput removes or escapes potentially dangerous control characters
// that could manipulate terminal display or execute commands
func sanitizeOutput(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			// Allow common whitespace characters
			result.WriteRune(r)
		case r == '\x1b':
			// Escape ANSI escape sequences - replace ESC with visible representation
			result.WriteString("\\x1b")
		case unicode.IsControl(r) && r < 0x20:
			// Replace other control characters (0x00-0x1F except allowed whitespace)
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		case r == 0x7F:
			// DEL character
			result.WriteString("\\x7f")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

var (
	successColor   = color.New(color.FgGreen, color.Bold)
	clientErrColor = color.New(color.FgYellow, color.Bold)
	otherErrColor  = color.New(color.FgRed, color.Bold)
	headerKeyColor = color.New(color.FgCyan)
	urlColor       = color.New(color.FgBlue)
	dimColor       = color.New(color.Faint)

	getColor    = color.New(color.FgHiBlue, color.Bold)
	writeColor  = color.New(color.FgYellow, color.Bold)
	deleteColor = color.New(color.FgRed, color.Bold)
)

// Output is where Print* functions write. Tests point it at a buffer.
var Output io.Writer = os.Stdout

// StatusColor returns the colour for a status class
func StatusColor(status uint16) *color.Color {
	switch model.ClassifyStatus(status) {
	case model.StatusSuccess:
		return successColor
	case model.StatusClientError:
		return clientErrColor
	default:
		return otherErrColor
	}
}

// MethodColor returns the accent colour used for a method chip
func MethodColor(m model.Method) *color.Color {
	switch m {
	case model.MethodGet:
		return getColor
	case model.MethodDelete:
		return deleteColor
	default:
		return writeColor
	}
}

// NotificationColor returns the colour for a notification kind
func NotificationColor(kind model.NotificationKind) *color.Color {
	switch kind {
	case model.NotificationError:
		return otherErrColor
	case model.NotificationWarn:
		return clientErrColor
	default:
		return successColor
	}
}

// PrintResponse prints a formatted HTTP response
func PrintResponse(resp *model.Response, showHeaders bool) {
	StatusColor(resp.Status).Fprintf(Output, "%d %s\n", resp.Status, sanitizeOutput(resp.Reason))
	if resp.Truncated {
		clientErrColor.Fprintf(Output, "  Size: %dB (truncated)\n\n", len(resp.Body))
	} else {
		dimColor.Fprintf(Output, "  Size: %dB\n\n", len(resp.Body))
	}

	if showHeaders {
		printPairs("Headers:", resp.Headers)
		if len(resp.Cookies) > 0 {
			fmt.Fprintln(Output, "Cookies:")
			for _, c := range resp.Cookies {
				fmt.Fprintf(Output, "  %s\n", sanitizeOutput(c))
			}
			fmt.Fprintln(Output)
		}
	}

	printBody(resp.Body)
}

func printPairs(title string, pairs []model.Pair) {
	if len(pairs) == 0 {
		return
	}

	fmt.Fprintln(Output, title)
	for _, p := range pairs {
		headerKeyColor.Fprintf(Output, "  %s: ", sanitizeOutput(p.Name))
		fmt.Fprintln(Output, sanitizeOutput(p.Value))
	}
	fmt.Fprintln(Output)
}

func printBody(body string) {
	if body == "" {
		dimColor.Fprintln(Output, "(empty body)")
		return
	}
	fmt.Fprintln(Output, sanitizeOutput(body))
}

// PrintNotification prints n in its kind's colour. Nil prints nothing.
func PrintNotification(n *model.Notification) {
	if n == nil {
		return
	}
	NotificationColor(n.Kind).Fprintf(Output, "[%s] %s\n", n.Kind, sanitizeOutput(n.Message))
}

// PrintRequest prints a one-line request summary
func PrintRequest(req *model.Request) {
	MethodColor(req.Method).Fprintf(Output, "%s ", req.Method)
	urlColor.Fprintln(Output, sanitizeOutput(req.Address.URI))
	if req.Timestamp != "" {
		dimColor.Fprintf(Output, "  Time: %s\n", req.Timestamp)
	}
	if req.Event == model.EventSent {
		fmt.Fprint(Output, "  Status: ")
		StatusColor(req.Response.Status).Fprintf(Output, "%d\n", req.Response.Status)
	}
}

// PrintRequestDetail prints full request/response details
func PrintRequestDetail(req *model.Request) {
	fmt.Fprintln(Output, "Request:")
	fmt.Fprintln(Output, strings.Repeat("-", 40))
	MethodColor(req.Method).Fprintf(Output, "%s ", req.Method)
	urlColor.Fprintln(Output, sanitizeOutput(req.Address.URI))
	if req.ID != "" {
		dimColor.Fprintf(Output, "ID: %s\n", req.ID)
	}
	if req.Timestamp != "" {
		dimColor.Fprintf(Output, "Time: %s\n", req.Timestamp)
	}
	dimColor.Fprintf(Output, "Content-Type: %s\n\n", req.ContentType)

	printPairs("Headers:", req.Headers)
	printPairs("Params:", req.Params)

	if req.Body != nil && *req.Body != "" {
		fmt.Fprintln(Output, "Body:")
		fmt.Fprintln(Output, sanitizeOutput(*req.Body))
		fmt.Fprintln(Output)
	}

	PrintNotification(req.Notification)

	if req.Event == model.EventSent {
		fmt.Fprintln(Output, "\nResponse:")
		fmt.Fprintln(Output, strings.Repeat("-", 40))
		PrintResponse(&req.Response, true)
	}
}

// PrintRequestList prints requests in a compact format, newest first
func PrintRequestList(requests []model.Request, limit int, empty string) {
	if len(requests) == 0 {
		dimColor.Fprintln(Output, empty)
		return
	}

	shown := 0
	for i := len(requests) - 1; i >= 0; i-- {
		if limit > 0 && shown == limit {
			break
		}
		shown++

		req := requests[i]
		dimColor.Fprintf(Output, "[%d] ", i+1)
		MethodColor(req.Method).Fprintf(Output, "%-7s ", req.Method)

		// Truncate URL if too long, then sanitize
		url := req.Address.URI
		if len(url) > 60 {
			url = url[:57] + "..."
		}
		urlColor.Fprintf(Output, "%-60s ", sanitizeOutput(url))

		if req.Event == model.EventSent {
			StatusColor(req.Response.Status).Fprintf(Output, "%d ", req.Response.Status)
			dimColor.Fprint(Output, req.Timestamp)
		}
		fmt.Fprintln(Output)
	}

	if limit > 0 && len(requests) > limit {
		dimColor.Fprintf(Output, "\n... and %d more requests\n", len(requests)-limit)
	}
}

// PrintCertificate prints the certificate configuration without secrets
func PrintCertificate(cert *model.Certificate) {
	if !cert.Required {
		dimColor.Fprintln(Output, "Client certificate: not required")
		return
	}
	headerKeyColor.Fprint(Output, "Client certificate: ")
	fmt.Fprintln(Output, sanitizeOutput(cert.FilePath))
	dimColor.Fprintf(Output, "  Status: %s\n", cert.Status)
	PrintNotification(cert.Notification)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	successColor.Fprintf(Output, "✓ %s\n", msg)
}

// PrintError prints an error message
func PrintError(msg string) {
	otherErrColor.Fprintf(os.Stderr, "✗ %s\n", msg)
}
