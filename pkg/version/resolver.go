// Package version finds the newest published tag of a GitHub repository and
// compares configured versions against it.
package version

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"golang.org/x/net/html"
)

// Getter performs a GET request and returns only successful responses.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*http.Response, error)
}

// Resolver reads the newest tag from a repository's tags page.
type Resolver struct {
	client Getter
}

// NewResolver creates a new Resolver.
func NewResolver(client Getter) *Resolver {
	return &Resolver{client: client}
}

// Latest returns the newest tag of repoURL with a leading "v" removed.
// The tags page lists tags newest first; no sorting is done.
func (r *Resolver) Latest(ctx context.Context, repoURL string) (string, error) {
	tagsURL, err := url.JoinPath(repoURL, "tags")
	if err != nil {
		return "", errors.Wrapf(ErrVersionFetch, "%s: %v", repoURL, err)
	}

	resp, err := r.client.Get(ctx, tagsURL)
	if err != nil {
		return "", errors.Wrapf(ErrVersionFetch, "%s: %v", tagsURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", errors.Wrapf(ErrVersionFetch, "%s: parse: %v", tagsURL, err)
	}

	tag, ok := findTag(doc)
	if !ok {
		return "", errors.Wrap(ErrVersionNotFound, tagsURL)
	}
	logger.Debug("Resolved latest tag", logger.Fields{"repo": repoURL, "tag": tag})

	return strings.TrimPrefix(tag, "v"), nil
}

// findTag returns the text of the first anchor carrying both the
// "Link--primary" and "Link" classes, in document order.
func findTag(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "a" && hasClasses(n, "Link--primary", "Link") {
		text := strings.TrimSpace(textContent(n))
		if text != "" {
			return text, true
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if tag, ok := findTag(c); ok {
			return tag, true
		}
	}
	return "", false
}

func hasClasses(n *html.Node, want ...string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		classes := strings.Fields(attr.Val)
		for _, w := range want {
			found := false
			for _, c := range classes {
				if c == w {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
