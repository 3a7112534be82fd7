package book

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
)

func openEPUB(path string) (*Book, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, errors.New("epub has no rootfile")
	}
	rootfile := rc.Rootfiles[0]

	b := &Book{
		Title:    rootfile.Title,
		Author:   rootfile.Creator,
		Language: rootfile.Language,
	}

	for i, itemref := range rootfile.Spine.Itemrefs {
		if itemref.Item == nil {
			continue
		}

		reader, err := itemref.Open()
		if err != nil {
			return nil, fmt.Errorf("open spine item %s: %w", itemref.HREF, err)
		}

		title, text, err := extractHTMLText(reader)
		_ = reader.Close()
		if err != nil {
			return nil, fmt.Errorf("parse spine item %s: %w", itemref.HREF, err)
		}

		if strings.TrimSpace(text) == "" {
			continue
		}
		if title == "" {
			title = fmt.Sprintf("Chapter %d", i+1)
		}
		b.Chapters = append(b.Chapters, Chapter{Title: title, Text: text})
	}

	if len(b.Chapters) == 0 {
		return nil, errors.New("epub contains no readable chapters")
	}
	return b, nil
}

// extractHTMLText walks the document tree collecting visible text. The
// first h1/h2/h3 (or the document title) becomes the chapter title.
func extractHTMLText(r io.Reader) (string, string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var title string
	var sb strings.Builder

	var walk func(*html.Node, bool)
	walk = func(n *html.Node, skip bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				skip = true
			case "h1", "h2", "h3":
				if title == "" {
					title = strings.TrimSpace(nodeText(n))
				}
			case "p", "div", "br", "li":
				sb.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode && !skip {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, skip)
		}
	}
	walk(doc, false)

	return title, strings.TrimSpace(sb.String()), nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
