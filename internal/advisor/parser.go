package advisor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// estimateLine matches "- Name: $1,234.56 (description)" with the leading
// dash and the description both optional.
var estimateLine = regexp.MustCompile(`^-?\s*(.+?):\s*\$([\d,.]+)(?:\s*\((.+?)\))?$`)

// sectionSubcategories maps the Markdown section headers the model is told to
// emit onto item subcategories. Headers are matched case-insensitively by
// prefix so trailing colons or annotations don't break parsing.
var sectionSubcategories = []struct {
	header      string
	subcategory string
}{
	{"**startup costs**", "startup_cost"},
	{"**monthly operating expenses**", "operating_expense"},
	{"**monthly payroll**", "payroll"},
	{"**monthly cogs**", "cogs"},
}

// ParseEstimates turns the model's Markdown budget into expense items. Lines
// outside a known section, and lines that don't look like "Name: $Amount",
// are skipped rather than treated as errors; the model occasionally pads its
// answer with prose.
func ParseEstimates(text string) []*domain.BudgetItem {
	var items []*domain.BudgetItem
	subcategory := ""

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		lower := strings.ToLower(trimmed)
		matchedHeader := false
		for _, s := range sectionSubcategories {
			if strings.HasPrefix(lower, s.header) {
				subcategory = s.subcategory
				matchedHeader = true
				break
			}
		}
		if matchedHeader {
			continue
		}
		if subcategory == "" {
			continue
		}

		m := estimateLine.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		amount, err := decimal.NewFromString(strings.ReplaceAll(m[2], ",", ""))
		if err != nil {
			amount = decimal.Zero
		}

		items = append(items, &domain.BudgetItem{
			Name:            strings.TrimSpace(m[1]),
			Category:        domain.CategoryExpense,
			Subcategory:     subcategory,
			EstimatedAmount: amount,
			Description:     strings.TrimSpace(m[3]),
			IsCustom:        false,
			IsSelected:      true,
		})
	}

	return items
}

func candidateFromPayload(p revenueStreamPayload) *domain.RevenueStreamCandidate {
	price := decimal.NewFromFloat(p.EstimatedPrice)
	volume := p.EstimatedVolume
	return &domain.RevenueStreamCandidate{
		Name:              p.Name,
		EstimatedPrice:    price,
		EstimatedVolume:   volume,
		RevenueProjection: price.Mul(decimal.NewFromInt(volume)),
		IsSelected:        true,
		IsCustom:          false,
	}
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// If there's still junk around the JSON array, keep only from the
	// first '[' to the last ']'.
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
