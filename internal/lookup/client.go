package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/asqwklop12/sparta/internal/domain"
	apperrors "github.com/asqwklop12/sparta/pkg/errors"
	"github.com/asqwklop12/sparta/pkg/httpclient"
)

const (
	searchPath     = "/v1/search/shop.json"
	defaultDisplay = 15
	upstreamName   = "shopping search"
)

// Config holds the shopping search API settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Display      int
}

// Client queries the shopping search API for current prices.
type Client struct {
	http   *httpclient.BreakerClient
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a new lookup client.
func NewClient(hc *httpclient.BreakerClient, cfg Config, logger *slog.Logger) *Client {
	if cfg.Display <= 0 {
		cfg.Display = defaultDisplay
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{http: hc, cfg: cfg, logger: logger}
}

type searchResponse struct {
	Total int          `json:"total"`
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Image  string `json:"image"`
	LPrice string `json:"lprice"`
}

var markup = strings.NewReplacer("<b>", "", "</b>", "")

// Search returns the items matching query in the API's relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]domain.LookupItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.InvalidInput("search query is required")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(c.cfg.Display))

	header := http.Header{}
	header.Set("X-Naver-Client-Id", c.cfg.ClientID)
	header.Set("X-Naver-Client-Secret", c.cfg.ClientSecret)
	header.Set("Accept", "application/json")

	resp, err := c.http.Get(ctx, c.cfg.BaseURL+searchPath+"?"+params.Encode(), header)
	if err != nil {
		c.logger.WarnContext(ctx, "shopping search failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, httpclient.ToAppError(upstreamName, err)
	}
	if resp.StatusCode != http.StatusOK {
		upstreamErr := httpclient.ParseResponseError(resp)
		c.logger.WarnContext(ctx, "shopping search rejected",
			slog.String("query", query),
			slog.Int("status", upstreamErr.Status),
			slog.String("code", upstreamErr.Code),
		)
		return nil, httpclient.ToAppError(upstreamName, upstreamErr)
	}
	defer func() { _ = resp.Body.Close() }()

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, httpclient.ToAppError(upstreamName, fmt.Errorf("decode search response: %w", err))
	}

	items := make([]domain.LookupItem, 0, len(body.Items))
	for _, it := range body.Items {
		price, err := parsePrice(it.LPrice)
		if err != nil {
			c.logger.DebugContext(ctx, "search item without usable price",
				slog.String("link", it.Link),
				slog.String("lprice", it.LPrice),
			)
			continue
		}
		items = append(items, domain.LookupItem{
			Title:       cleanTitle(it.Title),
			Link:        it.Link,
			Image:       it.Image,
			LowestPrice: price,
		})
	}
	return items, nil
}

// cleanTitle drops the <b> highlighting around matched words and decodes
// HTML entities.
func cleanTitle(title string) string {
	return html.UnescapeString(markup.Replace(title))
}

func parsePrice(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	price, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse lprice %q: %w", s, err)
	}
	if price < 0 {
		return 0, fmt.Errorf("negative lprice %d", price)
	}
	if price > domain.MaxPrice {
		return 0, fmt.Errorf("lprice %d out of range", price)
	}
	return price, nil
}
