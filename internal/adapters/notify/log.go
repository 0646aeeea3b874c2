package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"horizon_web/internal/domain"
)

// LogNotifier renders the quote notification and hands it to the logger.
// Delivery to a mailbox is left to whatever ships the logs.
type LogNotifier struct {
	to  string
	log zerolog.Logger
}

func NewLogNotifier(to string, log zerolog.Logger) *LogNotifier {
	return &LogNotifier{to: to, log: log.With().Str("component", "quote_notifier").Logger()}
}

func (n *LogNotifier) NotifyQuote(ctx context.Context, q domain.QuoteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.log.Info().
		Str("to", n.to).
		Str("quote_id", q.ID).
		Str("subject", Subject(q)).
		Str("body", Body(q)).
		Msg("quote notification")
	return nil
}

func Subject(q domain.QuoteRequest) string {
	return "New Quote Request: " + q.Service
}

// Body renders the HTML message. Every user-supplied value is escaped.
func Body(q domain.QuoteRequest) string {
	var b strings.Builder
	b.WriteString("<h2>New Quote Request</h2>\n")
	row := func(label, v string) {
		fmt.Fprintf(&b, "<p><strong>%s:</strong> %s</p>\n", label, html.EscapeString(v))
	}
	row("Name", q.Name)
	row("Email", q.Email)
	row("Phone", q.Phone)
	row("Service", q.Service)
	row("Budget", q.BudgetRange)
	if q.FileName != "" {
		row("Attachment", fmt.Sprintf("%s (%d bytes)", q.FileName, q.FileSize))
	}
	b.WriteString("<p><strong>Project Description:</strong></p>\n<p>")
	b.WriteString(strings.ReplaceAll(html.EscapeString(q.ProjectDescription), "\n", "<br>"))
	b.WriteString("</p>\n")
	return b.String()
}
