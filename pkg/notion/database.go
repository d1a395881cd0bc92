package notion

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

const pageSize = 100

// QueryAll fetches every page of a database, following cursors until the
// API reports no more results.
func QueryAll(ctx context.Context, c Client, dbID string) ([]notionapi.Page, error) {
	var all []notionapi.Page

	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}
	for {
		resp, err := c.QueryDatabase(ctx, dbID, req)
		if err != nil {
			return nil, eris.Wrap(err, "notion: query all")
		}
		all = append(all, resp.Results...)

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		req = &notionapi.DatabaseQueryRequest{
			PageSize:    pageSize,
			StartCursor: resp.NextCursor,
		}
	}

	return all, nil
}
