package records

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/placesearch/pkg/notion"
)

// NotionSource reads tables from Notion databases. The table argument is the
// database ID.
type NotionSource struct {
	client notion.Client
}

// NewNotionSource creates a NotionSource.
func NewNotionSource(c notion.Client) *NotionSource {
	return &NotionSource{client: c}
}

// FetchAll returns one record per database page.
func (s *NotionSource) FetchAll(ctx context.Context, table string) ([]Record, error) {
	pages, err := notion.QueryAll(ctx, s.client, table)
	if err != nil {
		return nil, eris.Wrapf(err, "records: fetch notion database %s", table)
	}
	out := make([]Record, 0, len(pages))
	for _, p := range pages {
		out = append(out, Record(notion.Fields(p)))
	}
	return out, nil
}
