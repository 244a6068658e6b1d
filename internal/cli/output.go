package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"broadcaster/internal/domain"
	"broadcaster/internal/templates"
)

// statusLine prefers the user-facing message and falls back to the full
// error for failures that never reached the broadcast path.
func statusLine(err error) string {
	var validationErr *domain.ValidationError
	var broadcastErr *domain.BroadcastError
	var apiErr *domain.APIError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &broadcastErr), errors.As(err, &apiErr),
		errors.Is(err, domain.ErrNoSession):
		return domain.StatusMessage(err)
	default:
		return err.Error()
	}
}

func printTemplates(w io.Writer, list []domain.MessageTemplate) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATUS\tCATEGORY\tLANGUAGE\tVARIABLES")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			t.Name, t.Status, t.Category, t.Language, len(templates.Placeholders(t.BodyText)))
	}
	return tw.Flush()
}

func printHistory(w io.Writer, entries []domain.BroadcastHistoryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tNAME\tTEMPLATE\tSTATUS\tTOTAL\tSENT\tFAILED")
	for _, h := range entries {
		tpl := h.TemplateName
		if tpl == "" {
			tpl = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			h.CreatedAt.Local().Format(time.DateTime), h.Name, tpl, h.Status,
			h.TotalRecipients, h.SuccessfulRecipients, h.FailedRecipients)
	}
	return tw.Flush()
}

func printPreview(w io.Writer, tpl *domain.MessageTemplate, vars []string) {
	if tpl.HeaderText != "" {
		fmt.Fprintln(w, tpl.HeaderText)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, templates.Preview(tpl.BodyText, vars))
	if tpl.FooterText != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, tpl.FooterText)
	}
}
