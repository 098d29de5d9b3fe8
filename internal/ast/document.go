package ast

// Document is the root node: one verb section followed by device sections
// in file order.
type Document struct {
	Pos
	Verb    *Section
	Devices []*Section
}

// NewDocument creates a Document for path with no devices.
func NewDocument(path string, verb *Section) *Document {
	return &Document{Pos: Pos{Path: path}, Verb: verb}
}

// Sections returns the verb followed by the devices.
func (d *Document) Sections() []*Section {
	out := make([]*Section, 0, 1+len(d.Devices))
	out = append(out, d.Verb)
	return append(out, d.Devices...)
}

// Section is a SectionVerb or a SectionDevice.
type Section struct {
	Pos
	Name            string // device name; empty for the verb section
	Value           *Block
	EnableSequence  *Block
	DisableSequence *Block
}

// IsVerb reports whether s is the SectionVerb.
func (s *Section) IsVerb() bool { return s.Name == "" && s.Text == VerbHeader }

// Blocks returns the Value, EnableSequence and DisableSequence blocks.
func (s *Section) Blocks() []*Block {
	return []*Block{s.Value, s.EnableSequence, s.DisableSequence}
}

// Sequences returns the EnableSequence and DisableSequence blocks.
func (s *Section) Sequences() []*Block {
	return []*Block{s.EnableSequence, s.DisableSequence}
}

// Header literals of the section grammar.
const (
	VerbHeader         = "SectionVerb {"
	DeviceHeaderPrefix = `SectionDevice."`
	DeviceHeaderSuffix = `".0 {`
	SectionClose       = "}"
)

// BlockKind identifies the three blocks of a section.
type BlockKind int

const (
	BlockValue BlockKind = iota
	BlockEnableSequence
	BlockDisableSequence
)

// String returns the block keyword.
func (k BlockKind) String() string {
	switch k {
	case BlockValue:
		return "Value"
	case BlockEnableSequence:
		return "EnableSequence"
	case BlockDisableSequence:
		return "DisableSequence"
	default:
		return "unknown"
	}
}

// Delimiters returns the opening and closing delimiter of the block:
// braces for Value, brackets for the sequences.
func (k BlockKind) Delimiters() (open, close string) {
	if k == BlockValue {
		return "{", "}"
	}
	return "[", "]"
}

// Header returns the literal opening line of the block without
// indentation, e.g. "Value {".
func (k BlockKind) Header() string {
	open, _ := k.Delimiters()
	return k.String() + " " + open
}

// IsSequence reports whether k is an EnableSequence or DisableSequence.
func (k BlockKind) IsSequence() bool {
	return k == BlockEnableSequence || k == BlockDisableSequence
}

// Block is a Value, EnableSequence or DisableSequence block. Pos is the
// opening line.
type Block struct {
	Pos
	Kind  BlockKind
	Items []*Item
}

// Get returns the first item with the given key, or nil.
func (b *Block) Get(key string) *Item {
	for _, item := range b.Items {
		if item.Key == key {
			return item
		}
	}
	return nil
}

// Empty reports whether the block has no items.
func (b *Block) Empty() bool { return len(b.Items) == 0 }

// Item is one `key "value"` line.
type Item struct {
	Pos
	Key      string
	RawValue string // text after the first space, untrimmed
	Value    string // RawValue without quotes, or Unparsable
}

// Opaque reports whether the item's value could not be parsed. Opaque
// items are present but carry no usable value.
func (i *Item) Opaque() bool { return i.Value == Unparsable }

func (*Document) node() {}
func (*Section) node()  {}
func (*Block) node()    {}
func (*Item) node()     {}

// Inspect traverses the tree rooted at n in depth-first order, calling f
// for each node. If f returns false, the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Document:
		for _, s := range n.Sections() {
			if s != nil {
				Inspect(s, f)
			}
		}
	case *Section:
		for _, b := range n.Blocks() {
			if b != nil {
				Inspect(b, f)
			}
		}
	case *Block:
		for _, item := range n.Items {
			Inspect(item, f)
		}
	}
}
