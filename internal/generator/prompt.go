package generator

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// priorSummaryLen caps how many runes of each earlier reflection are
// quoted back into the prompt. Enough to convey the angle taken, cheap
// on tokens.
const priorSummaryLen = 150

// truncate shortens s to at most n runes, marking the cut with an
// ellipsis. Cutting on a rune boundary keeps the prompt valid UTF-8.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n]) + "..."
}

// BuildPrompt assembles the generation prompt for one day's reflection.
// Prior entries from the current month are summarized so the model can
// avoid repeating angles it already took.
func BuildPrompt(req domain.ReflectionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are writing a daily Stoic reflection for an email newsletter.\n\n")
	fmt.Fprintf(&b, "This month's theme is %q: %s\n\n", req.Theme.Name, req.Theme.Description)
	fmt.Fprintf(&b, "Today's quote:\n%q\n- %s\n\n", req.Quote.Text, req.Quote.Attribution)

	if len(req.PriorEntries) > 0 {
		b.WriteString("Reflections already published this month, so you can take a fresh angle:\n")

		for _, entry := range req.PriorEntries {
			fmt.Fprintf(&b, "- %s: %s\n", entry.Attribution, truncate(entry.Reflection, priorSummaryLen))
		}

		b.WriteString("\n")
	}

	b.WriteString("Write a reflection of 250-450 words that connects the quote to the ")
	b.WriteString("monthly theme and to everyday modern life. Use a warm, direct tone. ")
	b.WriteString("Do not restate the quote verbatim.\n\n")
	b.WriteString("Respond with JSON in exactly this format:\n")
	b.WriteString(`{"reflection": "your reflection text here"}`)
	b.WriteString("\n")

	return b.String()
}
