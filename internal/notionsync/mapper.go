package notionsync

import (
	"github.com/jomei/notionapi"

	"github.com/ivolkov/founderdesk/internal/domain"
)

// ItemToNotionProperties converts a budget item to Notion properties for the
// budget items database. "Item ID" carries the BigQuery item id and is the
// key used for upserts and stale-page cleanup.
func ItemToNotionProperties(it *domain.BudgetItem) notionapi.Properties {
	estimated, _ := it.EstimatedAmount.Float64()

	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: it.Name,
					},
				},
			},
		},
		"Item ID": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: it.ID,
					},
				},
			},
		},
		"Category": notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(it.Category),
			},
		},
		"Estimated Amount": notionapi.NumberProperty{
			Number: estimated,
		},
		"Custom": notionapi.CheckboxProperty{
			Checkbox: it.IsCustom,
		},
		"Selected": notionapi.CheckboxProperty{
			Checkbox: it.IsSelected,
		},
	}

	if it.Subcategory != "" {
		props["Subcategory"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: it.Subcategory,
			},
		}
	}

	if it.ActualAmount != nil {
		actual, _ := it.ActualAmount.Float64()
		props["Actual Amount"] = notionapi.NumberProperty{
			Number: actual,
		}
	}

	if it.EstimatedPrice != nil {
		price, _ := it.EstimatedPrice.Float64()
		props["Estimated Price"] = notionapi.NumberProperty{
			Number: price,
		}
	}

	if it.EstimatedVolume != nil {
		props["Estimated Volume"] = notionapi.NumberProperty{
			Number: float64(*it.EstimatedVolume),
		}
	}

	if it.Description != "" {
		props["Description"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: it.Description,
					},
				},
			},
		}
	}

	if !it.CreatedAt.IsZero() {
		props["Created"] = notionapi.DateProperty{
			Date: &notionapi.DateObject{
				Start: (*notionapi.Date)(&it.CreatedAt),
			},
		}
	}

	return props
}

// extractItemID extracts the budget item ID from a Notion page's properties.
// Returns empty string if not found.
func extractItemID(page notionapi.Page) string {
	if prop, ok := page.Properties["Item ID"]; ok {
		if richText, ok := prop.(*notionapi.RichTextProperty); ok {
			if len(richText.RichText) > 0 {
				return richText.RichText[0].PlainText
			}
		}
	}
	return ""
}
