// Package report renders readings as standalone HTML documents.
package report

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cognicore/arcana/pkg/arcana/cards"
	"github.com/cognicore/arcana/pkg/arcana/inference"
)

const style = `
body { font-family: "Segoe UI", sans-serif; margin: 2em; }
ol.trace { font-family: monospace; list-style: none; padding: 0; }
.step { color: darkblue; }
.derived { color: darkgreen; }
.success { color: darkgreen; font-weight: bold; }
.failure { color: red; }
.debug { color: gray; }
.advice li { font-weight: bold; }
`

// HTML writes reading to w as an HTML document.
func HTML(w io.Writer, reading cards.Reading) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(withAttr(element(atom.Meta), "charset", "utf-8"))
	head.AppendChild(textElement(atom.Title, title(reading)))
	head.AppendChild(textElement(atom.Style, style))

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(textElement(atom.H1, title(reading)))
	body.AppendChild(textElement(atom.P, "id: "+reading.ID))

	switch reading.Kind {
	case cards.KindForward:
		body.AppendChild(spread(reading))
		body.AppendChild(textElement(atom.H2, "Advice"))
		if reading.NoAdvice {
			body.AppendChild(withAttr(textElement(atom.P, reading.Summary), "class", "failure"))
		} else {
			body.AppendChild(list(atom.Ul, "advice", reading.Advice))
		}
	case cards.KindBackward:
		status := "failure"
		if reading.Proven {
			status = "success"
		}
		body.AppendChild(withAttr(textElement(atom.P, reading.Summary), "class", status))
		if len(reading.Proof) > 0 {
			body.AppendChild(textElement(atom.H2, "Proof"))
			lines := make([]string, len(reading.Proof))
			for i, p := range reading.Proof {
				lines[i] = p.String()
			}
			body.AppendChild(list(atom.Ol, "proof", lines))
		}
	}

	body.AppendChild(textElement(atom.H2, "Trace"))
	body.AppendChild(trace(reading.Trace))

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func title(r cards.Reading) string {
	if r.Kind == cards.KindBackward {
		return "Hypothesis: " + r.Goal
	}
	return fmt.Sprintf("Reading (%s)", r.Mode)
}

func spread(r cards.Reading) *html.Node {
	table := withAttr(element(atom.Table), "class", "spread")
	for _, f := range r.Spread {
		tr := element(atom.Tr)
		tr.AppendChild(textElement(atom.Td, f.Tag.String()))
		tr.AppendChild(textElement(atom.Td, f.Value))
		table.AppendChild(tr)
	}
	return table
}

func trace(entries []inference.Entry) *html.Node {
	ol := withAttr(element(atom.Ol), "class", "trace")
	for _, e := range entries {
		ol.AppendChild(withAttr(textElement(atom.Li, e.Text), "class", e.Level.String()))
	}
	return ol
}

func list(a atom.Atom, class string, items []string) *html.Node {
	n := withAttr(element(a), "class", class)
	for _, it := range items {
		n.AppendChild(textElement(atom.Li, it))
	}
	return n
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}

func withAttr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}
