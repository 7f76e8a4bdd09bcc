// Package catalog resolves a recognized spine title against online book
// catalogs. Sources are tried in a fixed fallback order: DNB (SRU),
// OpenLibrary, lobid GND. A miss in every source is a nil result, not an
// error; only transport failures surface as errors.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Book holds the metadata fields the catalogs agree on. Missing fields
// stay empty.
type Book struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    string `json:"year,omitempty"`
	ISBN    string `json:"isbn,omitempty"`
	GNDID   string `json:"gnd_id,omitempty"`
}

// Client queries the catalog sources. Base URLs are configurable so
// tests can point at local servers.
type Client struct {
	http           *resty.Client
	dnbBaseURL     string
	openLibraryURL string
	lobidBaseURL   string
	language       string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLanguage sets the ISO 639-1 language used to narrow searches.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithBaseURLs overrides the catalog endpoints. Empty strings keep the
// production defaults.
func WithBaseURLs(dnb, openLibrary, lobid string) Option {
	return func(c *Client) {
		if dnb != "" {
			c.dnbBaseURL = dnb
		}
		if openLibrary != "" {
			c.openLibraryURL = openLibrary
		}
		if lobid != "" {
			c.lobidBaseURL = lobid
		}
	}
}

// NewClient builds a catalog client with production endpoints and a 10s
// timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:           resty.New().SetTimeout(10 * time.Second),
		dnbBaseURL:     "https://services.dnb.de/sru/dnb",
		openLibraryURL: "https://openlibrary.org/search.json",
		lobidBaseURL:   "https://lobid.org/gnd/search",
		language:       "de",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup tries each catalog source in order and returns the first hit
// together with the name of the source that produced it. When every
// source misses, both return values are zero.
func (c *Client) Lookup(ctx context.Context, query string) (source string, book *Book, err error) {
	if query == "" {
		return "", nil, nil
	}

	book, err = c.searchDNB(ctx, query)
	if err != nil {
		slog.Warn("DNB lookup failed", "error", err)
	} else if book != nil {
		return "dnb", book, nil
	}

	book, err = c.searchOpenLibrary(ctx, query)
	if err != nil {
		slog.Warn("OpenLibrary lookup failed", "error", err)
	} else if book != nil {
		return "openlibrary", book, nil
	}

	book, err = c.searchLobidGND(ctx, query)
	if err != nil {
		slog.Warn("lobid GND lookup failed", "error", err)
		return "", nil, err
	}
	if book != nil {
		return "lobid", book, nil
	}
	return "", nil, nil
}
