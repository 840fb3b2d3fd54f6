// =============================================================================
// notion.go - Notionクリッパー
// =============================================================================
//
// 検索結果の機会をNotionデータベースに1件1ページで保存する。
// CLIの --notion-clip で使用（NOTION_TOKEN, NOTION_DATABASE_ID）。
//
// 【データベースのプロパティ】
//   Title(title) / URL(url) / Source(select) / Summary(rich_text)
//   Score(number) / Signals(multi_select) / Location(rich_text) / Published(date)
//
// =============================================================================
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jomei/notionapi"
)

// notionTextLimit はrich_text 1要素あたりの文字数上限
const notionTextLimit = 2000

// NotionClipper handles clipping opportunities to Notion
type NotionClipper struct {
	client *notionapi.Client
	dbID   notionapi.DatabaseID
}

// NewNotionClipper creates a new Notion clipper
func NewNotionClipper(token string, databaseID string) (*NotionClipper, error) {
	if token == "" {
		return nil, errors.New("NOTION_TOKEN is required")
	}

	nc := &NotionClipper{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
	if databaseID != "" {
		nc.dbID = notionapi.DatabaseID(databaseID)
	}
	return nc, nil
}

// DatabaseID returns the target database, empty until set or created.
func (nc *NotionClipper) DatabaseID() string { return string(nc.dbID) }

// CreateDatabase creates a new Notion database under pageID for clipping
func (nc *NotionClipper) CreateDatabase(ctx context.Context, pageID string) error {
	if pageID == "" {
		return errors.New("NOTION_PAGE_ID is required to create a new database")
	}

	sourceOptions := make([]notionapi.Option, 0, len(allSources))
	for _, s := range allSources {
		sourceOptions = append(sourceOptions, notionapi.Option{Name: string(s)})
	}
	signalOptions := make([]notionapi.Option, 0, len(signalKeywords))
	for _, s := range signalKeywords {
		signalOptions = append(signalOptions, notionapi.Option{Name: s})
	}

	dbRequest := &notionapi.DatabaseCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: notionapi.PageID(pageID),
		},
		Title: []notionapi.RichText{
			{Text: &notionapi.Text{Content: "Health Opportunity Radar"}},
		},
		Properties: notionapi.PropertyConfigs{
			"Title": notionapi.TitlePropertyConfig{
				Type: notionapi.PropertyConfigTypeTitle,
			},
			"URL": notionapi.URLPropertyConfig{
				Type: notionapi.PropertyConfigTypeURL,
			},
			"Source": notionapi.SelectPropertyConfig{
				Type:   notionapi.PropertyConfigTypeSelect,
				Select: notionapi.Select{Options: sourceOptions},
			},
			"Summary": notionapi.RichTextPropertyConfig{
				Type: notionapi.PropertyConfigTypeRichText,
			},
			"Location": notionapi.RichTextPropertyConfig{
				Type: notionapi.PropertyConfigTypeRichText,
			},
			"Signals": notionapi.MultiSelectPropertyConfig{
				Type:        notionapi.PropertyConfigTypeMultiSelect,
				MultiSelect: notionapi.Select{Options: signalOptions},
			},
			"Score": notionapi.NumberPropertyConfig{
				Type:   notionapi.PropertyConfigTypeNumber,
				Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
			},
			"Published": notionapi.DatePropertyConfig{
				Type: notionapi.PropertyConfigTypeDate,
			},
		},
	}

	db, err := nc.client.Database.Create(ctx, dbRequest)
	if err != nil {
		return fmt.Errorf("failed to create Notion database: %w", err)
	}
	nc.dbID = notionapi.DatabaseID(db.ID)
	return nil
}

// ClipOpportunity clips one opportunity as a database page
func (nc *NotionClipper) ClipOpportunity(ctx context.Context, o Opportunity) error {
	if nc.dbID == "" {
		return errors.New("database ID not set")
	}

	pageRequest := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: nc.dbID,
		},
		Properties: opportunityProperties(o),
	}
	if _, err := nc.client.Page.Create(ctx, pageRequest); err != nil {
		return fmt.Errorf("failed to clip opportunity %s: %w", o.ID, err)
	}
	return nil
}

// ClipAll clips every item and returns how many succeeded.
// Individual failures do not stop the run; they are joined into the error.
func (nc *NotionClipper) ClipAll(ctx context.Context, items []Opportunity) (int, error) {
	var errs []error
	ok := 0
	for _, o := range items {
		if err := nc.ClipOpportunity(ctx, o); err != nil {
			errs = append(errs, err)
			continue
		}
		ok++
	}
	return ok, errors.Join(errs...)
}

// opportunityProperties はページのプロパティを組み立てる
func opportunityProperties(o Opportunity) notionapi.Properties {
	props := notionapi.Properties{
		"Title": notionapi.TitleProperty{
			Type:  notionapi.PropertyTypeTitle,
			Title: richText(o.Title),
		},
		"Source": notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: string(o.Source)},
		},
		"Score": notionapi.NumberProperty{
			Type:   notionapi.PropertyTypeNumber,
			Number: o.Score,
		},
	}

	// Notion はURLプロパティに空文字列を受け付けない
	if o.URL != "" {
		props["URL"] = notionapi.URLProperty{Type: notionapi.PropertyTypeURL, URL: o.URL}
	}
	if o.Summary != "" {
		props["Summary"] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(o.Summary),
		}
	}
	if o.Location != "" {
		props["Location"] = notionapi.RichTextProperty{
			Type:     notionapi.PropertyTypeRichText,
			RichText: richText(o.Location),
		}
	}
	if len(o.Signals) > 0 {
		opts := make([]notionapi.Option, 0, len(o.Signals))
		for _, s := range o.Signals {
			opts = append(opts, notionapi.Option{Name: s})
		}
		props["Signals"] = notionapi.MultiSelectProperty{
			Type:        notionapi.PropertyTypeMultiSelect,
			MultiSelect: opts,
		}
	}
	if t, err := time.Parse(time.RFC3339, o.PublishedAt); err == nil {
		d := notionapi.Date(t)
		props["Published"] = notionapi.DateProperty{
			Type: notionapi.PropertyTypeDate,
			Date: &notionapi.DateObject{Start: &d},
		}
	}
	return props
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: truncateRunes(s, notionTextLimit)}},
	}
}
