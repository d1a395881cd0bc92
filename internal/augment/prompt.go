package augment

import (
	"fmt"
	"strings"

	"github.com/sells-group/placesearch/internal/model"
)

// maxContext is the number of curated results quoted to the provider.
const maxContext = 5

var bannedPhrases = []string{
	"настоящий рай", "гастрономический рай", "райское место",
	"топовые рекомендации", "это настоящий...", "расслабленная атмосфера",
	"круто", "супер", "мега", "клёво", "прикольно",
}

// buildPrompt assembles the user message sent to the provider.
func buildPrompt(q Query) string {
	lower := strings.ToLower(q.Text)
	parts := []string{q.Text}

	switch {
	case q.Zone != "":
		if !strings.Contains(lower, strings.ToLower(string(q.Zone))) {
			parts = append(parts, fmt.Sprintf("in %s area, Bali", q.Zone))
		}
	case !strings.Contains(lower, "bali"):
		parts = append(parts, "in Bali, Indonesia")
	}

	if names := contextNames(q.Context); len(names) > 0 {
		parts = append(parts, fmt.Sprintf(
			"\nProvide CURRENT information for these places (%s): opening hours, prices, booking details, recent changes.",
			strings.Join(names, ", "),
		))
	}

	parts = append(parts, "\nInclude: exact address, contact info, current prices, opening hours, reservation requirements.")
	return strings.Join(parts, " ")
}

// buildSystemPrompt assembles the provider instruction: the curated context,
// the writing rules and the response language.
func buildSystemPrompt(q Query) string {
	subject := q.Subject
	if subject == "" {
		subject = "places"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert curator of Bali %s with access to a curated database of acclaimed places.\n\n", subject)

	b.WriteString("PRIORITY PLACES (check these first):\n")
	b.WriteString(contextBlock(q.Context))
	b.WriteString("\n\n")

	b.WriteString("Your task:\n")
	b.WriteString("1. For places from the priority list, give CURRENT details: opening hours, latest prices, booking information, recent changes.\n")
	b.WriteString("2. For places not on the list, prefer recently opened, well-regarded ones similar to the curated list.\n")
	b.WriteString("3. Always give the exact address, contact, price range, opening hours and reservation requirements.\n")
	b.WriteString("4. Never contradict the details of the priority places.\n\n")

	b.WriteString("STRICT WRITING RULES:\n")
	fmt.Fprintf(&b, "- NEVER use these phrases: %s\n", quoteAll(bannedPhrases))
	b.WriteString("- Be concise and factual\n")
	b.WriteString("- No excessive enthusiasm or marketing language\n\n")

	b.WriteString("Respond in the same language as the user's question.")
	return b.String()
}

func contextBlock(ctx []model.ScoredResult) string {
	if len(ctx) == 0 {
		return "No specific priority places for this query."
	}
	lines := make([]string, 0, maxContext)
	for _, r := range ctx[:min(len(ctx), maxContext)] {
		if r.Entry == nil {
			continue
		}
		detail := r.Entry.Distinction
		if detail == "" {
			detail = "curated pick"
		}
		cuisine := r.Entry.Cuisine
		if cuisine == "" {
			cuisine = "N/A"
		}
		lines = append(lines, fmt.Sprintf("- %s (%s): %s, %s", r.Entry.Name, r.Zone, cuisine, detail))
	}
	return strings.Join(lines, "\n")
}

func contextNames(ctx []model.ScoredResult) []string {
	var names []string
	for _, r := range ctx[:min(len(ctx), maxContext)] {
		if r.Entry != nil {
			names = append(names, r.Entry.Name)
		}
	}
	return names
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = `"` + s + `"`
	}
	return strings.Join(q, ", ")
}
