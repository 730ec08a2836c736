package assemble

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"schema-bridge/internal/resolve"
)

// ErrNoDocument is returned when a document ends without a root element.
var ErrNoDocument = errors.New("document has no root element")

// frame is the state of one open element.
type frame struct {
	name      string
	resolver  resolve.Resolver
	collector resolve.Collector
	text      strings.Builder
	parse     bool
}

// Assembler builds the value of one document at a time from the resolver
// graph rooted at root. It is not safe for concurrent use.
type Assembler struct {
	root   resolve.Resolver
	logger zerolog.Logger
	// normalize enables text normalization of parsed content.
	normalize bool

	stack  []*frame
	result any
	done   bool
}

// NewAssembler creates an Assembler for the resolver graph rooted at root.
func NewAssembler(root resolve.Resolver, logger zerolog.Logger) *Assembler {
	return &Assembler{root: root, logger: logger, normalize: true}
}

// Result returns the value of the last completed document.
func (a *Assembler) Result() (any, bool) {
	return a.result, a.done
}

func (a *Assembler) StartDocument() error {
	a.stack = a.stack[:0]
	a.result, a.done = nil, false

	return nil
}

func (a *Assembler) EndDocument() error {
	if !a.done {
		return ErrNoDocument
	}

	return nil
}

func (a *Assembler) StartElement(name xml.Name, attrs []xml.Attr) (bool, error) {
	var r resolve.Resolver

	if len(a.stack) == 0 {
		if a.done {
			return false, fmt.Errorf("second root element %s", name.Local)
		}

		r = a.root
	} else {
		parent := a.stack[len(a.stack)-1]

		r = parent.resolver.Element(name.Local)
		if r == nil {
			return false, fmt.Errorf("%w %s inside %s", resolve.ErrUnexpectedElement, name.Local, parent.name)
		}

		if r == resolve.Ignore && parent.resolver != resolve.Ignore {
			a.logger.Debug().Str("element", name.Local).Str("parent", parent.name).Msg("ignoring unknown element")
		}
	}

	f := &frame{name: name.Local, resolver: r, collector: r.Begin(), parse: r.ParseContent()}

	for _, attr := range attrs {
		if isNamespaceDecl(attr) {
			continue
		}

		ar := r.Attribute(attr.Name.Local)
		if ar == nil {
			continue
		}

		v, err := resolve.Resolve(ar, attr.Value)
		if err != nil {
			return false, fmt.Errorf("attribute %s: %w", attr.Name.Local, err)
		}

		if err := f.collector.Attribute(attr.Name.Local, v); err != nil {
			return false, err
		}
	}

	a.stack = append(a.stack, f)

	return f.parse, nil
}

func (a *Assembler) Characters(text string) error {
	if len(a.stack) == 0 {
		return nil
	}

	a.stack[len(a.stack)-1].text.WriteString(text)

	return nil
}

func (a *Assembler) EndElement(xml.Name) error {
	f := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]

	text := f.text.String()
	if f.parse && a.normalize {
		text = normalize(text)
	}

	if text != "" {
		if err := f.collector.Text(text); err != nil {
			return err
		}
	}

	v, err := f.collector.Complete()
	if err != nil {
		return err
	}

	if len(a.stack) == 0 {
		a.result, a.done = v, true
		return nil
	}

	return a.stack[len(a.stack)-1].collector.Element(f.name, v)
}
