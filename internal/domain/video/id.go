package video

import (
	"fmt"
	"regexp"
)

// YouTube video IDs are exactly 11 characters from [A-Za-z0-9_-].
var idPatterns = []*regexp.Regexp{
	// Standard watch URL, desktop and mobile
	regexp.MustCompile(`(?:m\.)?youtube\.com/watch\?(?:[^"&?/\s]*&)*v=([A-Za-z0-9_-]{11})`),
	// Short URL
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	// Embed and legacy URLs
	regexp.MustCompile(`youtube\.com/(?:embed|v)/([A-Za-z0-9_-]{11})`),
	// Shorts
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
	// Live streams
	regexp.MustCompile(`youtube\.com/live/([A-Za-z0-9_-]{11})`),
}

var bareIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ErrInvalidURL is returned when no video ID can be found in the input.
// Callers must not proceed to transcript retrieval when they see it.
type ErrInvalidURL struct {
	URL string
}

func (e *ErrInvalidURL) Error() string {
	return fmt.Sprintf("could not extract video ID from: %s", e.URL)
}

// ExtractID pulls the 11-character video ID from a YouTube URL.
// Supported shapes: watch?v=, youtu.be/, embed/, v/, shorts/, live/,
// the mobile host, and a bare 11-character ID.
func ExtractID(url string) (string, error) {
	for _, re := range idPatterns {
		if m := re.FindStringSubmatch(url); len(m) > 1 {
			return m[1], nil
		}
	}
	if bareIDRe.MatchString(url) {
		return url, nil
	}
	return "", &ErrInvalidURL{URL: url}
}
