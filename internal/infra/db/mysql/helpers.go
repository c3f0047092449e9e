package mysql

import (
	"encoding/json"
	"strings"

	"github.com/tubeinsight/api/internal/domain/video"
)

// resultOrEmpty keeps the JSON column valid when a result is absent
func resultOrEmpty(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return "{}"
	}
	return s
}

func metadataJSON(md *video.Metadata) ([]byte, error) {
	if md == nil {
		return nil, nil
	}
	return json.Marshal(md)
}

func scanMetadata(raw []byte) *video.Metadata {
	if len(raw) == 0 {
		return nil
	}
	var md video.Metadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil
	}
	return &md
}
