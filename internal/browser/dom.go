package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"linkedin-importer/internal/extract"
)

// DOMDocument adapts a live chromedp page to the extract.Document
// capability interface. Elements are addressed by JavaScript expressions
// evaluated against the current DOM, so extraction always sees the
// rendered page, not a snapshot.
type DOMDocument struct {
	ctx context.Context
}

// NewDOMDocument wraps the browser context for extraction.
func NewDOMDocument(ctx context.Context) *DOMDocument {
	return &DOMDocument{ctx: ctx}
}

func (d *DOMDocument) Find(selector string) extract.Element {
	els := d.FindAll(selector)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

func (d *DOMDocument) FindAll(selector string) []extract.Element {
	n := evalInt(d.ctx, fmt.Sprintf(`document.querySelectorAll(%q).length`, selector))
	els := make([]extract.Element, 0, n)
	for i := 0; i < n; i++ {
		els = append(els, &domElement{
			ctx:  d.ctx,
			expr: fmt.Sprintf(`document.querySelectorAll(%q)[%d]`, selector, i),
		})
	}
	return els
}

// domElement refers to one node via the JS expression that locates it.
// Every read re-evaluates the expression, so a node removed between
// calls simply yields empty values.
type domElement struct {
	ctx  context.Context
	expr string
}

func (e *domElement) Text() string {
	return evalString(e.ctx, fmt.Sprintf(
		`((el) => el ? (el.innerText || el.textContent || "") : "")(%s)`, e.expr))
}

func (e *domElement) Attr(name string) string {
	return evalString(e.ctx, fmt.Sprintf(
		`((el) => el ? (el.getAttribute(%q) || "") : "")(%s)`, name, e.expr))
}

func (e *domElement) Find(selector string) extract.Element {
	els := e.FindAll(selector)
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

func (e *domElement) FindAll(selector string) []extract.Element {
	n := evalInt(e.ctx, fmt.Sprintf(
		`((el) => el ? el.querySelectorAll(%q).length : 0)(%s)`, selector, e.expr))
	els := make([]extract.Element, 0, n)
	for i := 0; i < n; i++ {
		els = append(els, &domElement{
			ctx:  e.ctx,
			expr: fmt.Sprintf(`%s.querySelectorAll(%q)[%d]`, e.expr, selector, i),
		})
	}
	return els
}

// Evaluation errors are swallowed: a failed query is indistinguishable
// from a missing element, which the extractors already handle.

func evalInt(ctx context.Context, expr string) int {
	var n int
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &n)); err != nil {
		return 0
	}
	return n
}

func evalString(ctx context.Context, expr string) string {
	var s string
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &s)); err != nil {
		return ""
	}
	return s
}
