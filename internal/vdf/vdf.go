// Package vdf reads the line-oriented, brace-delimited key/value text format
// used by Steam's library index, app manifests and per-user config files.
//
// Every parser in steampick works one line at a time: QuotedValues pulls the
// quoted strings out of a line and the callers decide what the line means.
package vdf

import (
	"bytes"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// QuotedValues returns the substrings enclosed in double quotes on line, in
// order. Text outside quotes is ignored. A quote left open at the end of the
// line produces nothing.
func QuotedValues(line string) []string {
	var values []string
	inQuotes := false
	start := 0

	for i := 0; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		if inQuotes {
			values = append(values, line[start:i])
			inQuotes = false
		} else {
			start = i + 1
			inQuotes = true
		}
	}

	return values
}

// Pair returns the first two quoted values on line.
func Pair(line string) (key, value string, ok bool) {
	values := QuotedValues(line)
	if len(values) < 2 {
		return "", "", false
	}
	return values[0], values[1], true
}

// Lines splits file content into lines, dropping a leading BOM and any
// carriage returns left by CRLF line endings.
func Lines(data []byte) []string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return nil
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	// A trailing newline is a terminator, not an empty last line
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
