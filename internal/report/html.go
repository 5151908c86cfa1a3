package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const stylesheet = `body{font-family:sans-serif;max-width:60em;margin:2em auto;padding:0 1em}
table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.2em .5em}
h3{color:#007a87}nav ul{columns:2}`

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// HTML renders the Markdown report as a standalone page with a table of
// contents linking every section and entity heading.
func HTML(w io.Writer, in Input) error {
	var body bytes.Buffer
	if err := markdown.Convert(Markdown(in), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	doc, err := html.Parse(strings.NewReader("<!DOCTYPE html><html><head></head><body>" + body.String() + "</body></html>"))
	if err != nil {
		return fmt.Errorf("parse rendered html: %w", err)
	}
	head := findElement(doc, atom.Head)
	bodyNode := findElement(doc, atom.Body)
	if head == nil || bodyNode == nil {
		return fmt.Errorf("rendered html has no head or body")
	}

	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: in.title()})
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: stylesheet})
	head.AppendChild(style)

	if nav := tableOfContents(bodyNode); nav != nil {
		if h1 := findElement(bodyNode, atom.H1); h1 != nil {
			bodyNode.InsertBefore(nav, h1.NextSibling)
		} else {
			bodyNode.InsertBefore(nav, bodyNode.FirstChild)
		}
	}
	return html.Render(w, doc)
}

// tableOfContents nests a link to every h3 under the link of its h2.
func tableOfContents(body *html.Node) *html.Node {
	top := element(atom.Ul)
	var section *html.Node
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || (n.DataAtom != atom.H2 && n.DataAtom != atom.H3) {
			continue
		}
		id := attr(n, "id")
		if id == "" {
			continue
		}
		li := element(atom.Li)
		a := element(atom.A, "href", "#"+id)
		a.AppendChild(&html.Node{Type: html.TextNode, Data: textContent(n)})
		li.AppendChild(a)

		if n.DataAtom == atom.H2 {
			top.AppendChild(li)
			section = element(atom.Ul)
			li.AppendChild(section)
		} else if section != nil {
			section.AppendChild(li)
		} else {
			top.AppendChild(li)
		}
	}
	if top.FirstChild == nil {
		return nil
	}
	nav := element(atom.Nav)
	nav.AppendChild(top)
	return nav
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textContent(n *html.Node) string {
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
	return strings.TrimSpace(sb.String())
}
