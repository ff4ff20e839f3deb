// Package redirect serves and renders the pages that forward legacy URLs to
// their current location.
package redirect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/docskin/internal/errors"
)

// Rule forwards From to To.
type Rule struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// Validate checks a rule set: every From is an absolute path, every To is
// set, and no From appears twice.
func Validate(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if !strings.HasPrefix(r.From, "/") {
			return errors.NewValidationError("REDIRECT_FROM",
				fmt.Sprintf("redirect %d: from %q must be an absolute path", i, r.From))
		}
		if strings.TrimSpace(r.To) == "" {
			return errors.NewValidationError("REDIRECT_TO",
				fmt.Sprintf("redirect %d: to is empty", i))
		}
		from := normalize(r.From)
		if seen[from] {
			return errors.NewValidationError("REDIRECT_DUPLICATE",
				fmt.Sprintf("redirect %d: %s is redirected twice", i, r.From))
		}
		seen[from] = true
	}
	return nil
}

func normalize(p string) string {
	clean := path.Clean(p)
	if clean == "." {
		return "/"
	}
	return clean
}

// OutputPath is where the redirect page for r is written.
func (r Rule) OutputPath() string {
	return path.Join(strings.TrimPrefix(normalize(r.From), "/"), "index.html")
}

// Page renders a static HTML page that forwards to r.To.
func Page(r Rule) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		to := templ.EscapeString(r.To)
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Redirecting…</title>
<link rel="canonical" href="%[1]s">
<meta name="robots" content="noindex">
<meta http-equiv="refresh" content="0; url=%[1]s">
</head>
<body>
<p>This page has moved to <a href="%[1]s">%[1]s</a>.</p>
</body>
</html>
`, to)
		return err
	})
}

// Handler answers requests for a rule's From with a permanent redirect and
// passes everything else to next.
func Handler(rules []Rule, next http.Handler) http.Handler {
	targets := make(map[string]string, len(rules))
	for _, r := range rules {
		targets[normalize(r.From)] = r.To
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if to, ok := targets[normalize(req.URL.Path)]; ok {
			http.Redirect(w, req, to, http.StatusMovedPermanently)
			return
		}
		next.ServeHTTP(w, req)
	})
}
