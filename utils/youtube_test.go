package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const videoJSON = `{
	"items": [{
		"id": "dQw4w9WgXcQ",
		"snippet": {
			"title": "SQL for Beginners",
			"channelTitle": "Data School",
			"categoryId": "27",
			"tags": ["SQL", "databases", "tutorial", "beginner", "data", "analytics", "extra"],
			"thumbnails": {"high": {"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"}}
		},
		"contentDetails": {"duration": "PT1H23M45S"}
	}]
}`

func TestFetchResourceMapsVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "snippet,contentDetails", r.URL.Query().Get("part"))
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, videoJSON)
	}))
	defer srv.Close()

	yt := NewYouTubeClientWith("test-key", srv.URL)
	resource, err := yt.FetchResource(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", resource.ExternalID)
	assert.Equal(t, "SQL for Beginners", resource.Title)
	assert.Equal(t, "education", resource.Category)
	assert.Equal(t, "Data School", resource.ChannelTitle)
	assert.EqualValues(t, 84, resource.Duration, "PT1H23M45S rounds up to 84 minutes")

	// Tags are capped at five skills
	skills := resource.SkillNames()
	assert.Equal(t, []string{"SQL", "databases", "tutorial", "beginner", "data"}, skills)
}

func TestFetchResourceUnknownVideo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	}))
	defer srv.Close()

	yt := NewYouTubeClientWith("test-key", srv.URL)
	_, err := yt.FetchResource(context.Background(), "nope")
	assert.Error(t, err)
}

func TestFetchResourceAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	yt := NewYouTubeClientWith("test-key", srv.URL)
	_, err := yt.FetchResource(context.Background(), "dQw4w9WgXcQ")
	assert.Error(t, err)
}

func TestFetchResourceWithoutAPIKey(t *testing.T) {
	yt := NewYouTubeClientWith("", "http://localhost:0")
	_, err := yt.FetchResource(context.Background(), "dQw4w9WgXcQ")
	assert.Error(t, err)
}

func TestParseISODurationMinutes(t *testing.T) {
	cases := []struct {
		iso  string
		want int64
	}{
		{"PT10M", 10},
		{"PT1H", 60},
		{"PT1H30M", 90},
		{"PT59S", 1},
		{"PT10M1S", 11},
		{"PT2H0M0S", 120},
		{"PT", 0},
		{"", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseISODurationMinutes(tc.iso), "iso %q", tc.iso)
	}
}

func TestCategoryFromID(t *testing.T) {
	assert.Equal(t, "education", categoryFromID("27"))
	assert.Equal(t, "practical", categoryFromID("26"))
	assert.Equal(t, "technical", categoryFromID("10"))
	assert.Equal(t, "technical", categoryFromID(""))
}
