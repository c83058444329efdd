// Package region finds the user-owned blocks of a previously generated file.
//
// A generated file carries two marker pairs, each written as a line comment:
//
//	// <non-auto-generated-import-declarations>
//	// </non-auto-generated-import-declarations>
//	// <non-auto-generated-class-declarations>
//	// </non-auto-generated-class-declarations>
//
// Text between a pair belongs to the user and survives regeneration.
package region

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	ImportsTag      = "non-auto-generated-import-declarations"
	DeclarationsTag = "non-auto-generated-class-declarations"
)

// StartMarker and EndMarker return the comment lines delimiting tag.
func StartMarker(tag string) string { return "// <" + tag + ">" }
func EndMarker(tag string) string   { return "// </" + tag + ">" }

// Regions is the preserved text of one generated file.
type Regions struct {
	Imports      string
	Declarations string
	// Malformed names the tags whose markers were present but unpaired.
	Malformed []string
}

// Extract reads path and returns its preserved regions. A missing file yields
// empty regions. Only a failure to read an existing file is an error.
func Extract(path string) (Regions, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Regions{}, nil
	}
	if err != nil {
		return Regions{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Parse extracts the preserved regions from generated text.
func Parse(text string) Regions {
	text = strings.ReplaceAll(text, "\r", "")

	var r Regions
	var ok bool
	if r.Imports, ok = between(text, ImportsTag); !ok {
		r.Malformed = append(r.Malformed, ImportsTag)
	}
	if r.Declarations, ok = between(text, DeclarationsTag); !ok {
		r.Malformed = append(r.Malformed, DeclarationsTag)
	}
	return r
}

// between returns the text strictly between the start and end markers of tag,
// minus the remainder of the marker lines and surrounding blank lines. ok is
// false when exactly one marker exists or the end precedes the start; a file
// with neither marker is well formed and simply has nothing to preserve.
func between(text, tag string) (string, bool) {
	open, closing := "<"+tag+">", "</"+tag+">"
	start := strings.Index(text, open)
	end := strings.Index(text, closing)
	switch {
	case start < 0 && end < 0:
		return "", true
	case start < 0, end < 0:
		return "", false
	}
	start += len(open)
	if end < start {
		return "", false
	}

	body := text[start:end]
	// drop the rest of the start marker line and the comment lead-in of the end marker line
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	if nl := strings.LastIndexByte(body, '\n'); nl >= 0 {
		body = body[:nl]
	} else {
		body = ""
	}
	return trimBlankLines(body), true
}

// trimBlankLines strips leading and trailing blank lines, keeping the
// indentation of the first and last non-blank lines.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	first, last := 0, len(lines)-1
	for first <= last && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	for last >= first && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if first > last {
		return ""
	}
	return strings.Join(lines[first:last+1], "\n")
}
