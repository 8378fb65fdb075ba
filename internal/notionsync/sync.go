package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/ivolkov/founderdesk/internal/logger"
)

// SyncBudgetItems mirrors a budget's items into a Notion database, one page
// per item. Pages are keyed by the "Item ID" property: items already present
// are updated in place, items missing from the budget are archived, new items
// get fresh pages. With dryRun set the planned changes are logged but nothing
// is written to Notion.
func SyncBudgetItems(ctx context.Context, src ItemSource, notionClient NotionService, notionDBID, budgetID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("budget_id", budgetID).
		Bool("dry_run", dryRun).
		Msg("Starting budget item sync to Notion")

	items, err := src.SelectItems(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("failed to select budget items: %w", err)
	}

	log.Info().Int("item_count", len(items)).Msg("Retrieved budget items")

	validItemIDs := make(map[string]bool, len(items))
	for _, it := range items {
		validItemIDs[it.ID] = true
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	// Map item id to its existing page for upserts.
	existingPages := make(map[string]string, len(notionPages))
	for _, page := range notionPages {
		if itemID := extractItemID(page); itemID != "" {
			existingPages[itemID] = string(page.ID)
		}
	}

	// Archive pages whose item no longer exists, and pages without an
	// Item ID left over from older syncs.
	var deleted int
	for _, page := range notionPages {
		itemID := extractItemID(page)
		if itemID != "" && validItemIDs[itemID] {
			continue
		}

		if dryRun {
			log.Info().
				Str("item_id", itemID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			deleted++
			continue
		}

		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("item_id", itemID).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			continue
		}
		deleted++
	}

	var created, updated int
	for _, it := range items {
		pageID, exists := existingPages[it.ID]

		if dryRun {
			if exists {
				log.Info().
					Str("item_id", it.ID).
					Str("page_id", pageID).
					Msg("[DRY RUN] Would update Notion page")
				updated++
			} else {
				log.Info().
					Str("item_id", it.ID).
					Msg("[DRY RUN] Would create Notion page")
				created++
			}
			continue
		}

		props := ItemToNotionProperties(it)

		if exists {
			if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().
					Err(err).
					Str("item_id", it.ID).
					Str("page_id", pageID).
					Msg("Failed to update Notion page")
				continue
			}
			updated++
		} else {
			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("item_id", it.ID).
					Msg("Failed to create Notion page")
				continue
			}
			log.Debug().
				Str("item_id", it.ID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("deleted", deleted).
		Int("created", created).
		Int("updated", updated).
		Int("total", len(items)).
		Msg("Budget item sync completed")

	return nil
}

// queryAllNotionPages pages through the database 100 results at a time.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
