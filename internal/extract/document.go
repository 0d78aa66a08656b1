// Package extract implements field extraction from LinkedIn profile
// pages. Extractors are engine-agnostic: they read the page through the
// Document capability interface, which is backed by a live browser DOM
// in the browser engine and by a parsed static document in the HTTP
// fallback engine.
package extract

import (
	"io"

	"github.com/PuerkitoBio/goquery"
)

// Document provides read access to a profile page.
type Document interface {
	// Find returns the first element matching the CSS selector, or nil.
	Find(selector string) Element
	// FindAll returns all elements matching the CSS selector.
	FindAll(selector string) []Element
}

// Element is a single node within a Document.
type Element interface {
	// Text returns the visible text of the element.
	Text() string
	// Attr returns the named attribute, or "" when absent.
	Attr(name string) string
	// Find returns the first descendant matching the selector, or nil.
	Find(selector string) Element
	// FindAll returns all descendants matching the selector.
	FindAll(selector string) []Element
}

// HTMLDocument is a Document over statically parsed markup.
type HTMLDocument struct {
	doc *goquery.Document
}

// NewHTMLDocument parses markup from r into a static Document.
func NewHTMLDocument(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &HTMLDocument{doc: doc}, nil
}

func (d *HTMLDocument) Find(selector string) Element {
	return wrapSelection(d.doc.Find(selector).First())
}

func (d *HTMLDocument) FindAll(selector string) []Element {
	return wrapSelections(d.doc.Find(selector))
}

type htmlElement struct {
	sel *goquery.Selection
}

func (e htmlElement) Text() string {
	return e.sel.Text()
}

func (e htmlElement) Attr(name string) string {
	v, _ := e.sel.Attr(name)
	return v
}

func (e htmlElement) Find(selector string) Element {
	return wrapSelection(e.sel.Find(selector).First())
}

func (e htmlElement) FindAll(selector string) []Element {
	return wrapSelections(e.sel.Find(selector))
}

func wrapSelection(sel *goquery.Selection) Element {
	if sel.Length() == 0 {
		return nil
	}
	return htmlElement{sel: sel}
}

func wrapSelections(sel *goquery.Selection) []Element {
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, htmlElement{sel: s})
	})
	return elements
}
