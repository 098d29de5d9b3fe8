package testutil

import (
	"strings"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
)

// Section describes one SectionVerb or SectionDevice for fixture text.
// An empty Name renders a SectionVerb. Items are full item lines without
// indentation, e.g. `PlaybackPCM "hw:card0,0"`.
type Section struct {
	Name    string
	Value   []string
	Enable  []string
	Disable []string
}

// VerbOnly returns the canonical verb section: FullySpecifiedUCM "1" and
// empty sequences.
func VerbOnly() Section {
	return Section{Value: []string{`FullySpecifiedUCM "1"`}}
}

// Device returns a device section with the given Value items.
func Device(name string, value ...string) Section {
	return Section{Name: name, Value: value}
}

// WithEnable returns a copy of s with the given EnableSequence items.
func (s Section) WithEnable(items ...string) Section {
	s.Enable = items
	return s
}

// WithDisable returns a copy of s with the given DisableSequence items.
func (s Section) WithDisable(items ...string) Section {
	s.Disable = items
	return s
}

// Doc is a HiFi.conf fixture.
type Doc struct {
	Verb    Section
	Devices []Section
}

// HiFi builds a HiFi.conf fixture from a verb and device sections.
func HiFi(verb Section, devices ...Section) Doc {
	return Doc{Verb: verb, Devices: devices}
}

// String renders the fixture with tab indentation.
func (d Doc) String() string {
	var b strings.Builder
	writeSection(&b, "SectionVerb {", d.Verb)
	for _, dev := range d.Devices {
		b.WriteByte('\n')
		writeSection(&b, `SectionDevice."`+dev.Name+`".0 {`, dev)
	}
	return b.String()
}

// Bytes renders the fixture as bytes.
func (d Doc) Bytes() []byte {
	return []byte(d.String())
}

func writeSection(b *strings.Builder, header string, s Section) {
	b.WriteString(header + "\n")
	writeBlock(b, "Value {", "}", s.Value)
	b.WriteByte('\n')
	writeBlock(b, "EnableSequence [", "]", s.Enable)
	b.WriteByte('\n')
	writeBlock(b, "DisableSequence [", "]", s.Disable)
	b.WriteString("}\n")
}

func writeBlock(b *strings.Builder, open, close string, items []string) {
	b.WriteString("\t" + open + "\n")
	for _, item := range items {
		b.WriteString("\t\t" + item + "\n")
	}
	b.WriteString("\t" + close + "\n")
}

// Codes returns the codes of diags in order.
func Codes(diags []diag.Diagnostic) []string {
	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	return codes
}
