package validation

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Error is bad user input. Interactive callers re-prompt on it.
type Error struct {
	Field   string
	Value   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// SeriesHost is the only host series pages are accepted from.
const SeriesHost = "manhua.dmzj.com"

var seriesURLRe = regexp.MustCompile(`^(?:(?:https?:)?//)?manhua\.dmzj\.com/([^/?#\s]+)(/?)$`)

// SeriesURL checks that raw is a series home page (one path segment,
// optional scheme and trailing slash) and returns it with an https scheme.
func SeriesURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	m := seriesURLRe.FindStringSubmatch(s)
	if m == nil {
		return "", &Error{
			Field:   "url",
			Value:   raw,
			Message: "expected https://" + SeriesHost + "/<series> with exactly one path segment",
		}
	}

	return "https://" + SeriesHost + "/" + m[1] + m[2], nil
}

// ExistingDir checks that path names an existing directory.
func ExistingDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return &Error{Field: "dir", Value: path, Message: "empty path"}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &Error{Field: "dir", Value: path, Message: "does not exist"}
	}
	if !info.IsDir() {
		return &Error{Field: "dir", Value: path, Message: "not a directory"}
	}

	return nil
}
