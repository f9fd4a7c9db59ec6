package export

import (
	"regexp"
	"strings"
)

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_.-]+`)

// Filename builds the download name for a resume owned by name.
func Filename(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilename.ReplaceAllString(name, "")
	if name == "" {
		return "Resume.pdf"
	}
	return name + "_Resume.pdf"
}
