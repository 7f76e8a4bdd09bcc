package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
)

// iso639_1to3 maps the two-letter language codes the pipeline uses to
// the three-letter codes the DNB SRU interface expects.
var iso639_1to3 = map[string]string{
	"de": "ger",
	"en": "eng",
	"fr": "fre",
	"it": "ita",
}

// sruResponse models the subset of the DNB SRU (Dublin Core) response
// the lookup needs.
type sruResponse struct {
	Titles   []string `xml:"records>record>recordData>dc>title"`
	Creators []string `xml:"records>record>recordData>dc>creator"`
	Issued   []string `xml:"records>record>recordData>dc>issued"`
	ISBNs    []string `xml:"records>record>recordData>dc>isbn13"`
}

// searchDNB queries the DNB SRU endpoint. A response without any usable
// fields counts as a miss.
func (c *Client) searchDNB(ctx context.Context, query string) (*Book, error) {
	lang := iso639_1to3[c.language]
	if lang == "" {
		lang = "ger"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"version":        "1.1",
			"operation":      "searchRetrieve",
			"query":          fmt.Sprintf("%s and spr=%q", query, lang),
			"maximumRecords": "1",
		}).
		Get(c.dnbBaseURL)
	if err != nil {
		return nil, fmt.Errorf("DNB request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("DNB request: status %d", resp.StatusCode())
	}

	var parsed sruResponse
	if err := xml.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("DNB response: %w", err)
	}

	book := &Book{
		Title:   first(parsed.Titles),
		Authors: first(parsed.Creators),
		Year:    first(parsed.Issued),
		ISBN:    first(parsed.ISBNs),
	}
	if book.Title == "" && book.Authors == "" && book.Year == "" && book.ISBN == "" {
		return nil, nil
	}
	return book, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
