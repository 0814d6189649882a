package youtube

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

var viewsPrinter = message.NewPrinter(language.English)

// ParseDuration converts an ISO-8601 video duration (PT#H#M#S) to H:MM:SS, or M:SS
// when there are no hours. Anything unparsable becomes "0:00".
func ParseDuration(iso string) string {
	m := durationRe.FindStringSubmatch(iso)
	if m == nil {
		return "0:00"
	}
	hours, minutes, seconds := atoi(m[1]), atoi(m[2]), atoi(m[3])
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// FormatViews renders a raw viewCount as "1,234 views".
func FormatViews(count string) string {
	n, err := strconv.ParseInt(count, 10, 64)
	if err != nil || n < 0 {
		return "0 views"
	}
	return viewsPrinter.Sprintf("%d views", n)
}

// ThumbnailURL is the public fallback thumbnail for a video id.
func ThumbnailURL(videoID, quality string) string {
	return "https://img.youtube.com/vi/" + videoID + "/" + quality + ".jpg"
}

var videoIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`)

// ExtractVideoID accepts a watch, short or embed URL and returns the bare id; any
// other input is returned unchanged.
func ExtractVideoID(s string) string {
	if m := videoIDRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}
