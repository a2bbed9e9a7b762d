package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"emirimo/config"
	"emirimo/models/learning"

	"github.com/go-resty/resty/v2"
)

// YouTubeClient resolves learning resource metadata from the YouTube Data
// API. Resolved videos are cached in learning_resources by the caller; this
// client only fetches.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *resty.Client
}

func NewYouTubeClient() *YouTubeClient {
	return &YouTubeClient{
		apiKey:  config.AppConfig.YouTubeApiKey,
		baseURL: config.AppConfig.YouTubeApiURL,
		client:  resty.New().SetTimeout(10 * time.Second),
	}
}

// NewYouTubeClientWith builds a client against an explicit endpoint (tests)
func NewYouTubeClientWith(apiKey, baseURL string) *YouTubeClient {
	return &YouTubeClient{apiKey: apiKey, baseURL: baseURL, client: resty.New().SetTimeout(10 * time.Second)}
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string   `json:"title"`
			ChannelTitle string   `json:"channelTitle"`
			CategoryID   string   `json:"categoryId"`
			Tags         []string `json:"tags"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// FetchResource looks up one video by id and maps it to a LearningResource
func (y *YouTubeClient) FetchResource(ctx context.Context, videoID string) (*learning.LearningResource, error) {
	if y.apiKey == "" {
		return nil, fmt.Errorf("youtube api key not configured")
	}

	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,contentDetails",
			"id":   videoID,
			"key":  y.apiKey,
		}).
		Get(y.baseURL + "/videos")
	if err != nil {
		return nil, fmt.Errorf("youtube request failed: %v", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("youtube request failed with status %d", resp.StatusCode())
	}

	var body videosResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("invalid youtube response: %v", err)
	}
	if len(body.Items) == 0 {
		return nil, fmt.Errorf("video %q not found", videoID)
	}

	item := body.Items[0]

	// Skill names from video tags, capped so the certificate stays readable
	skills := item.Snippet.Tags
	if len(skills) > 5 {
		skills = skills[:5]
	}
	skillsJSON, _ := json.Marshal(skills)

	return &learning.LearningResource{
		ExternalID:   item.ID,
		Title:        item.Snippet.Title,
		Category:     categoryFromID(item.Snippet.CategoryID),
		Skills:       skillsJSON,
		Duration:     parseISODurationMinutes(item.ContentDetails.Duration),
		ChannelTitle: item.Snippet.ChannelTitle,
		ThumbnailURL: item.Snippet.Thumbnails.High.URL,
	}, nil
}

// categoryFromID maps the YouTube category id onto our coarse buckets
func categoryFromID(id string) string {
	switch id {
	case "27": // Education
		return "education"
	case "26": // Howto & Style
		return "practical"
	default:
		return "technical"
	}
}

// parseISODurationMinutes converts an ISO-8601 duration like PT1H23M45S to
// whole minutes, rounding seconds up
func parseISODurationMinutes(iso string) int64 {
	iso = strings.TrimPrefix(iso, "PT")
	if iso == "" {
		return 0
	}

	var hours, minutes, seconds int64
	num := ""
	for _, r := range iso {
		if r >= '0' && r <= '9' {
			num += string(r)
			continue
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return 0
		}
		switch r {
		case 'H':
			hours = n
		case 'M':
			minutes = n
		case 'S':
			seconds = n
		}
		num = ""
	}

	total := hours*60 + minutes
	if seconds > 0 {
		total++
	}
	return total
}
