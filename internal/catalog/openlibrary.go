package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// openLibraryResponse models the subset of the OpenLibrary search
// response the lookup needs.
type openLibraryResponse struct {
	Docs []struct {
		Title            string   `json:"title"`
		AuthorName       []string `json:"author_name"`
		FirstPublishYear int      `json:"first_publish_year"`
		ISBN             []string `json:"isbn"`
	} `json:"docs"`
}

// searchOpenLibrary queries the OpenLibrary search API for the single
// most relevant result.
func (c *Client) searchOpenLibrary(ctx context.Context, query string) (*Book, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"lang":  c.language,
			"limit": "1",
		}).
		Get(c.openLibraryURL)
	if err != nil {
		return nil, fmt.Errorf("OpenLibrary request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("OpenLibrary request: status %d", resp.StatusCode())
	}

	var parsed openLibraryResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("OpenLibrary response: %w", err)
	}
	if len(parsed.Docs) == 0 {
		return nil, nil
	}

	doc := parsed.Docs[0]
	book := &Book{
		Title:   doc.Title,
		Authors: strings.Join(doc.AuthorName, ", "),
	}
	if doc.FirstPublishYear != 0 {
		book.Year = fmt.Sprintf("%d", doc.FirstPublishYear)
	}
	if len(doc.ISBN) > 0 {
		book.ISBN = doc.ISBN[0]
	}
	return book, nil
}
