package assemble

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs events and leaves the content of "raw" elements unparsed.
type recorder struct {
	events []string
}

func (r *recorder) StartDocument() error {
	r.events = append(r.events, "start")
	return nil
}

func (r *recorder) EndDocument() error {
	r.events = append(r.events, "end")
	return nil
}

func (r *recorder) StartElement(name xml.Name, _ []xml.Attr) (bool, error) {
	r.events = append(r.events, "<"+name.Local)
	return name.Local != "raw", nil
}

func (r *recorder) Characters(text string) error {
	if strings.TrimSpace(text) != "" {
		r.events = append(r.events, "text:"+text)
	}

	return nil
}

func (r *recorder) EndElement(name xml.Name) error {
	r.events = append(r.events, ">"+name.Local)
	return nil
}

func TestUnparsedReconstructsMarkup(t *testing.T) {
	doc := `<doc xmlns="urn:d"><raw>a &amp; <b xmlns:p="urn:p" p:k="1" c="&quot;q&quot;">x</b><i/></raw><next>y</next></doc>`

	rec := &recorder{}
	require.NoError(t, Stream(strings.NewReader(doc), Unparsed(rec)))

	assert.Equal(t, []string{
		"start",
		"<doc",
		"<raw",
		`text:a &amp; <b p:k="1" c="&quot;q&quot;">x</b><i></i>`,
		">raw",
		"<next",
		"text:y",
		">next",
		">doc",
		"end",
	}, rec.events)
}

func TestUnparsedKeepsPrefixes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "prefix declared on the child",
			doc:  `<doc><raw>Hi <x:b xmlns:x="urn:x" x:lang="en" plain="a&amp;b">bold &amp; &lt;</x:b> end</raw></doc>`,
			want: `Hi <x:b x:lang="en" plain="a&amp;b">bold &amp; &lt;</x:b> end`,
		},
		{
			name: "prefix declared outside the content",
			doc:  `<doc xmlns:x="urn:x"><raw><x:a><x:c x:k="1"/></x:a></raw></doc>`,
			want: `<x:a><x:c x:k="1"></x:c></x:a>`,
		},
		{
			name: "rebound prefix",
			doc:  `<doc xmlns:x="urn:outer"><raw><x:a xmlns:x="urn:inner"><x:b/></x:a><x:c/></raw></doc>`,
			want: `<x:a><x:b></x:b></x:a><x:c></x:c>`,
		},
		{
			name: "default namespace and xml prefix",
			doc:  `<doc><raw><p xmlns="urn:p" xml:lang="de"><q/></p></raw></doc>`,
			want: `<p xml:lang="de"><q></q></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			require.NoError(t, Stream(strings.NewReader(tt.doc), Unparsed(rec)))
			assert.Contains(t, rec.events, "text:"+tt.want)
		})
	}
}

func TestStreamReportsPosition(t *testing.T) {
	err := Stream(strings.NewReader("<a>\n<b></c></a>"), &recorder{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, "a.b", pe.Path)
}
