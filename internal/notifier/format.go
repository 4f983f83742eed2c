package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/isgwatch/isgwatch/internal/entry"
)

// Formatting is kept separate from transport so message content can be
// tested without an SMTP server.

func newEntriesSubject(prefix string, count int) string {
	if count == 1 {
		return fmt.Sprintf("%s: 1 new alert", prefix)
	}
	return fmt.Sprintf("%s: %d new alerts", prefix, count)
}

func newEntriesPlainBody(entries []entry.Entry) string {
	header := fmt.Sprintf("%-6s  %-12s  %-4s  %-12s  %s", "Nr.", "Error code", "HP", "Date", "Time")
	separator := strings.Repeat("-", len(header))

	var sb strings.Builder
	sb.WriteString("New entries in the heat pump error list:\n\n")
	sb.WriteString(header)
	sb.WriteByte('\n')
	sb.WriteString(separator)
	sb.WriteByte('\n')
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-6s  %-12s  %-4s  %-12s  %s\n",
			e.Nr, e.ErrorCode, e.Heatpump, e.Date, e.Time)
	}
	return sb.String()
}

func newEntriesHTMLBody(entries []entry.Entry) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	sb.WriteString("<p>New entries in the heat pump error list:</p>")
	sb.WriteString("<table border='1' cellpadding='5' cellspacing='0' style='border-collapse:collapse'>")
	sb.WriteString("<tr style='background:#eee'>")
	sb.WriteString("<th>Nr.</th><th>Error code</th><th>HP</th><th>Date</th><th>Time</th>")
	sb.WriteString("</tr>")
	for _, e := range entries {
		fmt.Fprintf(&sb, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(e.Nr),
			html.EscapeString(e.ErrorCode),
			html.EscapeString(e.Heatpump),
			html.EscapeString(e.Date),
			html.EscapeString(e.Time))
	}
	sb.WriteString("</table></body></html>")
	return sb.String()
}

func fetchFailureSubject(prefix string) string {
	return fmt.Sprintf("%s: error list could not be retrieved", prefix)
}

func fetchFailurePlainBody(fetchErr error) string {
	return fmt.Sprintf("Fetching the error list failed:\n\n%s\n", fetchErr)
}

func fetchFailureHTMLBody(fetchErr error) string {
	return fmt.Sprintf(
		"<html><body><p><strong>Fetching the error list failed:</strong></p><pre>%s</pre></body></html>",
		html.EscapeString(fetchErr.Error()))
}
