package share

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// BundleParser deserializes an exported lesson file back into structured data.
type BundleParser interface {
	Parse(data []byte) (*Bundle, error)
}

// JSONParser parses a JSON-encoded Bundle.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse JSON lesson: %w", err)
	}
	return &b, nil
}

// MarkdownParser parses a Markdown-rendered Bundle by extracting the
// embedded base64 JSON payload from the sentinel comments. The readable
// sections are presentation only and never parsed.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*Bundle, error) {
	content := string(data)

	// Require the version sentinel.
	if !strings.Contains(content, "<!-- codewalk-lesson-version: 1 -->") {
		return nil, fmt.Errorf("not a valid codewalk lesson: missing version sentinel")
	}

	// Extract the base64 payload from <!-- codewalk-data: <base64> -->.
	const prefix = "<!-- codewalk-data: "
	const suffix = " -->"
	start := strings.Index(content, prefix)
	if start == -1 {
		return nil, fmt.Errorf("not a valid codewalk lesson: missing data payload")
	}
	start += len(prefix)
	end := strings.Index(content[start:], suffix)
	if end == -1 {
		return nil, fmt.Errorf("not a valid codewalk lesson: malformed data payload")
	}
	encoded := content[start : start+end]

	// Base64-decode the payload.
	jsonBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("not a valid codewalk lesson: corrupted base64 payload: %w", err)
	}

	// Unmarshal the JSON into a Bundle.
	var b Bundle
	if err := json.Unmarshal(jsonBytes, &b); err != nil {
		return nil, fmt.Errorf("not a valid codewalk lesson: failed to parse embedded JSON: %w", err)
	}

	return &b, nil
}

// ParserFor picks a parser for the given file name by extension: .json gets
// the JSON parser, everything else the Markdown parser.
func ParserFor(filename string) BundleParser {
	if strings.HasSuffix(strings.ToLower(filename), ".json") {
		return &JSONParser{}
	}
	return &MarkdownParser{}
}
