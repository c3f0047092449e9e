package youtube

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/tubeinsight/api/internal/domain/video"
)

// Client fetches video metadata from the YouTube Data API v3, keyed by an
// API key. Used opportunistically to enrich analysis records.
type Client struct {
	service *yt.Service
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service, timeout: timeout}, nil
}

// Metadata returns the snapshot stored on an analysis record, or
// video.ErrNotFound when the ID is unknown.
func (c *Client) Metadata(ctx context.Context, videoID string) (*video.Metadata, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.service.Videos.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube api: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, video.ErrNotFound
	}

	item := resp.Items[0]
	md := &video.Metadata{ID: item.Id}
	if item.Snippet != nil {
		md.Snippet = video.Snippet{
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		}
	}
	if item.Statistics != nil {
		md.Statistics = video.Statistics{
			ViewCount: strconv.FormatUint(item.Statistics.ViewCount, 10),
			LikeCount: strconv.FormatUint(item.Statistics.LikeCount, 10),
		}
	}
	if item.ContentDetails != nil {
		md.ContentDetails = video.ContentDetails{Duration: item.ContentDetails.Duration}
	}
	return md, nil
}
