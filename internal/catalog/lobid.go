package catalog

import (
	"context"
	"encoding/json"
	"fmt"
)

// lobidResponse models the subset of the lobid GND search response the
// lookup needs.
type lobidResponse struct {
	Member []struct {
		ID            string `json:"id"`
		PreferredName string `json:"preferredName"`
		GNDIdentifier string `json:"gndIdentifier"`
		FirstAuthor   []struct {
			Label string `json:"label"`
		} `json:"firstAuthor"`
	} `json:"member"`
}

// searchLobidGND queries lobid GND for work records. This source only
// carries authority data, so it is the last resort in the chain.
func (c *Client) searchLobidGND(ctx context.Context, query string) (*Book, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      query,
			"filter": "type:Work",
			"format": "json",
		}).
		Get(c.lobidBaseURL)
	if err != nil {
		return nil, fmt.Errorf("lobid request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("lobid request: status %d", resp.StatusCode())
	}

	var parsed lobidResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("lobid response: %w", err)
	}
	if len(parsed.Member) == 0 {
		return nil, nil
	}

	entry := parsed.Member[0]
	book := &Book{
		Title: entry.PreferredName,
		GNDID: entry.GNDIdentifier,
	}
	if len(entry.FirstAuthor) > 0 {
		book.Authors = entry.FirstAuthor[0].Label
	}
	return book, nil
}
