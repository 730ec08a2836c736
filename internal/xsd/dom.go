package xsd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// node is a minimal element tree used while reading a schema document.
type node struct {
	name     xml.Name
	attrs    map[string]string
	ns       map[string]string
	children []*node
	text     strings.Builder
}

func (n *node) attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func (n *node) is(local string) bool {
	return n.name.Space == Namespace && n.name.Local == local
}

// readTree reads the whole document into a node tree, tracking in-scope
// namespace prefixes for every element.
func readTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)

	var (
		stack []*node
		root  *node
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read schema document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name, attrs: make(map[string]string)}

			parentNS := map[string]string{}
			if len(stack) > 0 {
				parentNS = stack[len(stack)-1].ns
			}

			n.ns = make(map[string]string, len(parentNS))
			for k, v := range parentNS {
				n.ns[k] = v
			}

			for _, a := range t.Attr {
				switch {
				case a.Name.Space == "xmlns":
					n.ns[a.Name.Local] = a.Value
				case a.Name.Space == "" && a.Name.Local == "xmlns":
					n.ns[""] = a.Value
				case a.Name.Space == "":
					n.attrs[a.Name.Local] = a.Value
				}
			}

			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else {
				root = n
			}

			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errors.New("failed to read schema document: no root element")
	}

	return root, nil
}
