package video

import (
	"context"
	"errors"
)

// Metadata is a denormalized snapshot of YouTube video metadata, stored
// alongside each analysis. The shape mirrors the Data API v3 response so
// stored history stays readable by existing clients.
type Metadata struct {
	ID             string         `json:"id"`
	Snippet        Snippet        `json:"snippet"`
	Statistics     Statistics     `json:"statistics"`
	ContentDetails ContentDetails `json:"contentDetails"`
}

type Snippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

type Statistics struct {
	ViewCount string `json:"viewCount"`
	LikeCount string `json:"likeCount"`
}

type ContentDetails struct {
	Duration string `json:"duration"`
}

// ErrNotFound indicates the video ID is unknown to the metadata provider.
var ErrNotFound = errors.New("video not found")

// MetadataProvider port for the video-metadata collaborator. Enrichment is
// best-effort: callers degrade to a placeholder snapshot on error.
type MetadataProvider interface {
	Metadata(ctx context.Context, videoID string) (*Metadata, error)
}

// Placeholder returns the minimal snapshot stored when metadata lookup fails.
func Placeholder(videoID string) *Metadata {
	return &Metadata{
		ID: videoID,
		Snippet: Snippet{
			Title:       "YouTube Video",
			Description: "Video analysis",
		},
	}
}
