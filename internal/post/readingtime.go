package post

import "strings"

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 250

// ReadingTime estimates minutes to read body: whitespace-separated tokens
// divided by WordsPerMinute, rounded up. An empty body reads in 0 minutes.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
