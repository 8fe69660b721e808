package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Item is one (label, value) pair produced by a Routine.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Engine loads pages. One engine is shared by a whole run and is never
// used concurrently.
type Engine interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Page is a loaded document. Close disposes it.
type Page interface {
	// URL is the final address of the document, after redirects.
	URL() string
	Count(ctx context.Context, selector string) (int, error)
	Extract(ctx context.Context, selector string, r Routine) ([]Item, error)
	Close() error
}

// Routine names an extraction evaluated against located elements.
type Routine int

const (
	// ChildLinks walks every element matching the selector; for each child
	// it takes the first grandchild link: label is its title attribute,
	// value its absolute href.
	ChildLinks Routine = iota

	// SelectOptions reads the first element matching the selector; for each
	// child option: label is its visible text, value its value.
	SelectOptions
)

func (r Routine) String() string {
	switch r {
	case ChildLinks:
		return "child-links"
	case SelectOptions:
		return "select-options"
	default:
		return fmt.Sprintf("routine(%d)", int(r))
	}
}

const childLinksJS = `(() => Array.from(document.querySelectorAll(%s))
  .flatMap(group => Array.from(group.children)
    .map(li => li.children[0])
    .filter(a => a)
    .map(a => ({label: a.title || "", value: a.href || ""}))))()`

const selectOptionsJS = `(() => {
  const sel = document.querySelector(%s);
  if (!sel) return [];
  return Array.from(sel.children)
    .map(o => ({label: (o.innerText || "").trim(), value: o.value || ""}));
})()`

const countJS = `document.querySelectorAll(%s).length`

// script renders the in-page JavaScript for r. The selector is embedded
// as a JSON string literal.
func (r Routine) script(selector string) (string, error) {
	lit, err := jsString(selector)
	if err != nil {
		return "", err
	}

	switch r {
	case ChildLinks:
		return fmt.Sprintf(childLinksJS, lit), nil
	case SelectOptions:
		return fmt.Sprintf(selectOptionsJS, lit), nil
	default:
		return "", fmt.Errorf("unknown routine %s", r)
	}
}

func countScript(selector string) (string, error) {
	lit, err := jsString(selector)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(countJS, lit), nil
}

func jsString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}

	return string(bytes.TrimSpace(buf.Bytes())), nil
}
