package assemble

import (
	"encoding/xml"
	"errors"
	"io"

	"schema-bridge/internal/model"
)

// Handler receives the events of one document.
type Handler interface {
	StartDocument() error
	EndDocument() error
	// StartElement reports whether the content of the element is parsed
	// structurally. Handlers placed behind the Unparsed adapter receive the
	// content of unparsed elements as one Characters call.
	StartElement(name xml.Name, attrs []xml.Attr) (parse bool, err error)
	// Characters may be called several times per text node.
	Characters(text string) error
	EndElement(name xml.Name) error
}

// Stream reads one document from r and drives h with its events. Comments,
// processing instructions and directives are skipped. Every failure is a
// *ParseError.
func Stream(r io.Reader, h Handler) error {
	d := xml.NewDecoder(r)

	var stack []model.Path

	fail := func(err error) error {
		var pe *ParseError
		if errors.As(err, &pe) {
			return err
		}

		line, col := d.InputPos()
		e := &ParseError{Line: line, Column: col, Err: err}

		if len(stack) > 0 {
			e.Path = stack[len(stack)-1].String()
		}

		return e
	}

	if err := h.StartDocument(); err != nil {
		return fail(err)
	}

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			path := model.NewPath(t.Name.Local)
			if len(stack) > 0 {
				path = stack[len(stack)-1].Field(t.Name.Local)
			}

			stack = append(stack, path)

			if _, err := h.StartElement(t.Name, t.Attr); err != nil {
				return fail(err)
			}
		case xml.EndElement:
			if err := h.EndElement(t.Name); err != nil {
				return fail(err)
			}

			stack = stack[:len(stack)-1]
		case xml.CharData:
			if err := h.Characters(string(t)); err != nil {
				return fail(err)
			}
		}
	}

	if err := h.EndDocument(); err != nil {
		return fail(err)
	}

	return nil
}

// tee sends every event to each handler in order and stops at the first
// error. The parse flag of the last handler wins.
type tee []Handler

// Tee combines handlers into one.
func Tee(handlers ...Handler) Handler {
	return tee(handlers)
}

func (t tee) StartDocument() error {
	for _, h := range t {
		if err := h.StartDocument(); err != nil {
			return err
		}
	}

	return nil
}

func (t tee) EndDocument() error {
	for _, h := range t {
		if err := h.EndDocument(); err != nil {
			return err
		}
	}

	return nil
}

func (t tee) StartElement(name xml.Name, attrs []xml.Attr) (bool, error) {
	parse := true

	for _, h := range t {
		var err error
		if parse, err = h.StartElement(name, attrs); err != nil {
			return false, err
		}
	}

	return parse, nil
}

func (t tee) Characters(text string) error {
	for _, h := range t {
		if err := h.Characters(text); err != nil {
			return err
		}
	}

	return nil
}

func (t tee) EndElement(name xml.Name) error {
	for _, h := range t {
		if err := h.EndElement(name); err != nil {
			return err
		}
	}

	return nil
}
