package advisor

import (
	"strings"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// estimateFormatPrompt describes the Markdown shape ParseEstimates expects.
// The section headers and "Name: $Amount (description)" lines are load
// bearing; keep them in sync with the parser.
const estimateFormatPrompt = "Format your answer EXACTLY like this, with these four section headers:\n\n" +
	"**Startup Costs**\n" +
	"- Item name: $1,000 (short description)\n\n" +
	"**Monthly Operating Expenses**\n" +
	"- Item name: $500 (short description)\n\n" +
	"**Monthly Payroll**\n" +
	"- Role name: $3,000 (short description)\n\n" +
	"**Monthly COGS**\n" +
	"- Item name: $200 (short description)\n\n" +
	"Rules:\n" +
	"- Every line item must follow \"Name: $Amount\" with an optional parenthesized description.\n" +
	"- Amounts are US dollars; use digits, commas allowed.\n" +
	"- Do not add sections, totals, or commentary outside the four sections.\n"

func buildEstimatesPrompt(session *domain.ChatSession, history []Message) string {
	var b strings.Builder

	b.WriteString("You are a startup finance advisor. Based on the business described below, ")
	b.WriteString("produce a realistic initial expense budget.\n\n")

	b.WriteString("Business type: ")
	if session.BusinessType != "" {
		b.WriteString(session.BusinessType)
	} else {
		b.WriteString("Startup")
	}
	b.WriteString("\n")
	if session.Title != "" {
		b.WriteString("Session title: " + session.Title + "\n")
	}
	b.WriteString("\n")

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, m := range history {
			b.WriteString(m.Role + ": " + m.Content + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(estimateFormatPrompt)
	return b.String()
}

func buildPlanExtractionPrompt() string {
	return "You are a startup finance advisor. Read the attached business plan and " +
		"extract an initial expense budget from it. Use the plan's own figures where " +
		"they exist and fill reasonable estimates where they do not.\n\n" +
		estimateFormatPrompt
}

func buildRevenueStreamsPrompt(businessType string) string {
	return "You are a startup finance advisor. Suggest 3 to 5 realistic revenue streams " +
		"for this business type: " + businessType + "\n\n" +
		"Output STRICT JSON only (no comments, no trailing commas, no extra text).\n" +
		"Output a JSON array of objects.\n\n" +
		"Each object must have these fields:\n" +
		"- \"name\": string, short revenue stream name\n" +
		"- \"estimated_price\": number, unit price in US dollars\n" +
		"- \"estimated_volume\": integer, units sold per month\n\n" +
		"Return ONLY valid raw JSON.\n" +
		"Do NOT wrap the response in code fences.\n" +
		"Do NOT use ```json or any Markdown.\n" +
		"Output must begin with \"[\" and end with \"]\".\n"
}
