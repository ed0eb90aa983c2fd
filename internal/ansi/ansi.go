// Package ansi holds the SGR escape codes used for styled command output.
package ansi

import "regexp"

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

var sgr = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Strip removes SGR sequences from s, leaving the visible text.
func Strip(s string) string {
	return sgr.ReplaceAllString(s, "")
}
