// Package youtube is a small client for the YouTube Data API v3 search and videos
// endpoints.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/youtube/v3"
	// MaxPageSize is the largest maxResults the search endpoint accepts.
	MaxPageSize = 50

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 2048
)

// UpstreamError is returned when the API answers with a non-2xx status.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("YouTube API error: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type Thumbnail struct {
	URL string `json:"url"`
}

type SearchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		Title       string `json:"title"`
		PublishedAt string `json:"publishedAt"`
		Thumbnails  struct {
			High    *Thumbnail `json:"high,omitempty"`
			Medium  *Thumbnail `json:"medium,omitempty"`
			Default *Thumbnail `json:"default,omitempty"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// BestThumbnail returns the highest resolution thumbnail URL present, or "".
func (it SearchItem) BestThumbnail() string {
	th := it.Snippet.Thumbnails
	for _, t := range []*Thumbnail{th.High, th.Medium, th.Default} {
		if t != nil && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

type SearchPage struct {
	Items         []SearchItem `json:"items"`
	NextPageToken string       `json:"nextPageToken"`
}

// Details holds the formatted duration and view label for one video.
type Details struct {
	Duration string
	Views    string
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics *struct {
			ViewCount string `json:"viewCount"`
		} `json:"statistics,omitempty"`
	} `json:"items"`
}

// Search fetches one page of video search results for query.
func (c *Client) Search(ctx context.Context, query, pageToken string, maxResults int) (*SearchPage, error) {
	if maxResults <= 0 || maxResults > MaxPageSize {
		maxResults = MaxPageSize
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(maxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var page SearchPage
	if err := c.get(ctx, "search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Details fetches duration and statistics for the given ids, keyed by id.
func (c *Client) Details(ctx context.Context, ids []string) (map[string]Details, error) {
	out := make(map[string]Details, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	params := url.Values{}
	params.Set("part", "contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	var resp videosResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}

	for _, item := range resp.Items {
		views := ""
		if item.Statistics != nil {
			views = item.Statistics.ViewCount
		}
		out[item.ID] = Details{
			Duration: ParseDuration(item.ContentDetails.Duration),
			Views:    FormatViews(views),
		}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dst any) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
