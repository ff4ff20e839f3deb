// Package frontmatter splits markdown documents into YAML front matter and
// body, and runs document plugins over the result.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/docskin/internal/errors"
)

const delimiter = "---"

// RawMarkdownKey is the front matter key RawMarkdown writes.
const RawMarkdownKey = "rawMarkdown"

// Document is a parsed markdown source file.
type Document struct {
	Path        string
	FrontMatter map[string]any
	Body        string
	// Raw is the file content exactly as read.
	Raw string
}

// Plugin transforms a document after parsing.
type Plugin func(doc *Document) error

// Parse splits data into front matter and body. A document without a
// leading "---" line has empty front matter and the whole input as body.
func Parse(path string, data []byte) (*Document, error) {
	raw := string(data)
	doc := &Document{
		Path:        path,
		FrontMatter: map[string]any{},
		Body:        raw,
		Raw:         raw,
	}

	text := strings.TrimPrefix(raw, "\ufeff")
	first, rest, found := strings.Cut(text, "\n")
	if !found || strings.TrimRight(first, "\r ") != delimiter {
		return doc, nil
	}

	block, body, ok := cutClosing(rest)
	if !ok {
		return nil, errors.NewParseError("FRONTMATTER_UNTERMINATED", path,
			errors.NewValidationError("", "front matter block is not closed"))
	}

	if strings.TrimSpace(block) != "" {
		if err := yaml.Unmarshal([]byte(block), &doc.FrontMatter); err != nil {
			return nil, errors.NewParseError("FRONTMATTER_YAML", path, err)
		}
		if doc.FrontMatter == nil {
			doc.FrontMatter = map[string]any{}
		}
	}
	doc.Body = body
	return doc, nil
}

// cutClosing finds the closing delimiter line in s.
func cutClosing(s string) (block, body string, ok bool) {
	offset := 0
	for {
		line, rest, found := strings.Cut(s[offset:], "\n")
		if strings.TrimRight(line, "\r ") == delimiter {
			block = s[:offset]
			if found {
				return block, rest, true
			}
			return block, "", true
		}
		if !found {
			return "", "", false
		}
		offset += len(line) + 1
	}
}

// Apply runs plugins over doc in order, stopping at the first error.
func (d *Document) Apply(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := p(d); err != nil {
			return errors.NewRenderError("PLUGIN", "document plugin failed", err).WithPath(d.Path)
		}
	}
	return nil
}

// String returns the front matter value under key when it is a string.
func (d *Document) String(key string) string {
	if s, ok := d.FrontMatter[key].(string); ok {
		return s
	}
	return ""
}

// Int returns the front matter value under key when it is a number.
func (d *Document) Int(key string) (int, bool) {
	switch v := d.FrontMatter[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Float returns the front matter value under key when it is a number,
// keeping any fractional part.
func (d *Document) Float(key string) (float64, bool) {
	switch v := d.FrontMatter[key].(type) {
	case int:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// Marshal re-emits the document with its current front matter.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if len(d.FrontMatter) > 0 {
		buf.WriteString(delimiter + "\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(d.FrontMatter); err != nil {
			return nil, errors.NewInternalError("FRONTMATTER_ENCODE", "encoding front matter", err)
		}
		if err := enc.Close(); err != nil {
			return nil, errors.NewInternalError("FRONTMATTER_ENCODE", "encoding front matter", err)
		}
		buf.WriteString(delimiter + "\n")
	}
	buf.WriteString(d.Body)
	return buf.Bytes(), nil
}

// RawMarkdown stores the document's full source text in its front matter
// so page templates can offer it for copying or download.
func RawMarkdown(doc *Document) error {
	if doc.FrontMatter == nil {
		doc.FrontMatter = make(map[string]any)
	}
	doc.FrontMatter[RawMarkdownKey] = doc.Raw
	return nil
}
