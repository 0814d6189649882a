package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "healing", q.Get("q"))
		assert.Equal(t, "10", q.Get("maxResults"))
		assert.Equal(t, "tok", q.Get("pageToken"))
		assert.Equal(t, "secret", q.Get("key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"nextPageToken": "next",
			"items": [
				{"id": {"videoId": "a1"}, "snippet": {"title": "Healing Service", "thumbnails": {"medium": {"url": "https://m/a1.jpg"}}}},
				{"id": {"videoId": "b2"}, "snippet": {"title": "Praise Night", "thumbnails": {}}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	page, err := c.Search(context.Background(), "healing", "tok", 10)
	require.NoError(t, err)

	assert.Equal(t, "next", page.NextPageToken)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "a1", page.Items[0].ID.VideoID)
	assert.Equal(t, "https://m/a1.jpg", page.Items[0].BestThumbnail())
	assert.Equal(t, "", page.Items[1].BestThumbnail())
}

func TestClient_Details(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "a1,b2", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"items": [
			{"id": "a1", "contentDetails": {"duration": "PT1H2M3S"}, "statistics": {"viewCount": "1234"}},
			{"id": "b2", "contentDetails": {"duration": "PT45S"}}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	details, err := c.Details(context.Background(), []string{"a1", "b2"})
	require.NoError(t, err)

	assert.Equal(t, Details{Duration: "1:02:03", Views: "1,234 views"}, details["a1"])
	assert.Equal(t, Details{Duration: "0:45", Views: "0 views"}, details["b2"])
}

func TestClient_DetailsEmptyIDs(t *testing.T) {
	c := NewClient("secret", WithBaseURL("http://127.0.0.1:1"))
	details, err := c.Details(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"message": "quotaExceeded"}}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q", "", 5)
	require.Error(t, err)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
	assert.Equal(t, "search", upErr.Endpoint)
	assert.Contains(t, upErr.Body, "quotaExceeded")
}

func TestClient_Configured(t *testing.T) {
	assert.False(t, NewClient("").Configured())
	assert.True(t, NewClient("k").Configured())
}
