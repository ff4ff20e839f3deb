// Package datauri builds the inline SVG data URIs that category icons are
// embedded as in CSS.
package datauri

import (
	"net/url"
	"strings"
)

// SVGPrefix starts every URI produced by SVG.
const SVGPrefix = "data:image/svg+xml,"

const upperhex = "0123456789ABCDEF"

// unreserved is the set of bytes encodeURIComponent leaves alone.
var unreserved [256]bool

func init() {
	for c := 'A'; c <= 'Z'; c++ {
		unreserved[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		unreserved[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		unreserved[c] = true
	}
	for _, c := range "-_.!~*'()" {
		unreserved[c] = true
	}
}

// EncodeComponent percent-encodes s the way ECMAScript encodeURIComponent
// does for well-formed UTF-8. It works byte by byte, so invalid UTF-8 is
// encoded rather than rejected and still decodes back to the same bytes.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved[s[i]] {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved[c] {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// SVG returns markup as an image/svg+xml data URI. Any %27 left by the
// encoder is turned back into a literal single quote; the URI is consumed
// inside a double-quoted url("...") so single quotes are safe there.
func SVG(markup string) string {
	return SVGPrefix + strings.ReplaceAll(EncodeComponent(markup), "%27", "'")
}

// CSSURL wraps the data URI for markup in a CSS url() with double quotes.
func CSSURL(markup string) string {
	return `url("` + SVG(markup) + `")`
}

// Decode reverses SVG, returning the original markup.
func Decode(uri string) (string, error) {
	payload, ok := strings.CutPrefix(uri, SVGPrefix)
	if !ok {
		return "", &FormatError{URI: uri}
	}
	return url.PathUnescape(payload)
}

// FormatError reports a URI that is not an SVG data URI.
type FormatError struct {
	URI string
}

func (e *FormatError) Error() string {
	uri := e.URI
	if len(uri) > 40 {
		uri = uri[:40] + "..."
	}
	return "datauri: not an svg data uri: " + uri
}
