package jobs

import "regexp"

var jobIDPattern = regexp.MustCompile(`/jobs/(\d+)`)

// ExtractIDFromURL returns the first run of digits after a /jobs/ segment.
func ExtractIDFromURL(url string) (string, bool) {
	match := jobIDPattern.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}
