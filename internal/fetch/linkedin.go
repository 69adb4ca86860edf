package fetch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/kalambet/coldreach/internal/profile"
)

func (c *Client) linkedIn(ctx context.Context, pageURL string) (profile.Fields, error) {
	body, err := c.get(ctx, pageURL, "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return profile.Fields{}, err
	}
	defer body.Close()

	f, err := parseLinkedIn(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return profile.Fields{}, err
	}
	f.ProfileURL = pageURL
	return f, nil
}

// parseLinkedIn extracts the public profile card from a LinkedIn page.
// Logged-out pages carry the same data in Open Graph tags, which are used
// when the rendered card is missing.
func parseLinkedIn(r io.Reader) (profile.Fields, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return profile.Fields{}, fmt.Errorf("parsing profile page: %w", err)
	}

	var name, headline, about, ogTitle, ogDesc string
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "meta":
			switch attr(n, "property") {
			case "og:title":
				ogTitle = attr(n, "content")
			case "og:description":
				ogDesc = attr(n, "content")
			}
		case "h1":
			if name == "" || hasClass(n, "text-heading-xlarge") {
				name = textOf(n)
			}
			return false
		case "div", "section", "p":
			switch {
			case headline == "" && hasClass(n, "text-body-medium"):
				headline = textOf(n)
				return false
			case about == "" && hasClass(n, "show-more-less-text"):
				about = textOf(n)
				return false
			}
		}
		return true
	})

	if name == "" && ogTitle != "" {
		name, headline = splitOGTitle(ogTitle, headline)
	}
	if about == "" {
		about = ogDesc
	}
	if name == "" && headline == "" {
		return profile.Fields{}, fmt.Errorf("no profile data in page")
	}

	f := profile.Fields{
		Name:   name,
		Bio:    headline,
		About:  about,
		Source: profile.SourceLinkedIn,
	}
	f.Role, f.Company = splitHeadline(headline)
	return f, nil
}

// splitOGTitle splits "Name - Headline | LinkedIn".
func splitOGTitle(title, headline string) (string, string) {
	title, _, _ = strings.Cut(title, " | ")
	name, rest, ok := strings.Cut(title, " - ")
	if ok && headline == "" {
		headline = strings.TrimSpace(rest)
	}
	return strings.TrimSpace(name), headline
}

// splitHeadline reads "Role at Company" headlines.
func splitHeadline(headline string) (role, company string) {
	if i := strings.LastIndex(headline, " at "); i >= 0 {
		role = strings.TrimSpace(headline[:i])
		company = strings.TrimSpace(headline[i+len(" at "):])
		company, _, _ = strings.Cut(company, " | ")
		return role, strings.TrimSpace(company)
	}
	role, _, _ = strings.Cut(headline, " | ")
	return strings.TrimSpace(role), ""
}

// walk visits nodes depth-first; fn returns false to skip a node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textOf returns the whitespace-collapsed text under n.
func textOf(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style"):
			return false
		case c.Type == html.TextNode:
			parts = append(parts, c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
