// Package ast provides the syntax tree of a parsed UCM HiFi.conf file.
//
// The tree is strict: a Document owns its Sections, a Section owns its
// three Blocks, a Block owns its Items. Every node carries the file path and
// the number and raw text of the line that introduced it, so any diagnostic
// can cite an exact location. The tree is not modified after parsing.
package ast

// Pos locates a node in its source file.
type Pos struct {
	Path string
	Line int    // 1-based line number of the introducing line
	Text string // raw text of the introducing line
}

// Node is implemented by *Document, *Section, *Block and *Item only.
type Node interface {
	Position() Pos
	node()
}

// Position returns p. Embedding Pos gives every node its Position method.
func (p Pos) Position() Pos { return p }

// Unparsable is the Value of an Item whose raw value is not properly
// quoted.
const Unparsable = "<can not parse>"
