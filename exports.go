package ucmlint

import (
	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/ast"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/device"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/layout"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/lint"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/parser"
)

// Type aliases for the public API.

// Document is a parsed HiFi.conf.
type Document = ast.Document

// Section is a SectionVerb or SectionDevice.
type Section = ast.Section

// Block is a Value, EnableSequence or DisableSequence block.
type Block = ast.Block

// BlockKind identifies a block.
type BlockKind = ast.BlockKind

// Item is a key/value line inside a block.
type Item = ast.Item

// Pos is the source position of a node.
type Pos = ast.Pos

// Node is any element of the syntax tree.
type Node = ast.Node

// SyntaxError is a structural violation that stops parsing.
type SyntaxError = parser.SyntaxError

// DeviceType is the semantic category of a device section.
type DeviceType = device.Type

// LayoutInfo is what a UCM directory path says about its configuration.
type LayoutInfo = layout.Info

// Diagnostic is a single advisory finding.
type Diagnostic = diag.Diagnostic

// Block kinds.
const (
	BlockValue           = ast.BlockValue
	BlockEnableSequence  = ast.BlockEnableSequence
	BlockDisableSequence = ast.BlockDisableSequence
)

// Unparsable is the value of an item whose value could not be parsed.
const Unparsable = ast.Unparsable

// Device types.
const (
	Speaker         = device.Speaker
	Headphone       = device.Headphone
	InternalMic     = device.InternalMic
	Mic             = device.Mic
	HDMI            = device.HDMI
	BluetoothPCMIn  = device.BluetoothPCMIn
	BluetoothPCMOut = device.BluetoothPCMOut
)

// ClassifyDevice resolves a device section name to its type. ok is false
// for names the linter does not know.
func ClassifyDevice(name string) (t DeviceType, ok bool) {
	return device.Classify(name)
}

// CardID derives the ALSA card id from a card name.
func CardID(cardName string) string {
	return lint.CardID(cardName)
}

// Inspect infers layout information from a UCM directory path without
// reading any file. Misnamed path components are reported to sink.
func Inspect(dir string, sink diag.Sink) LayoutInfo {
	if sink == nil {
		sink = diag.Discard
	}
	return layout.Inspect(dir, sink, nil)
}

// Walk traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false, the children of that node are skipped.
func Walk(n Node, f func(Node) bool) {
	ast.Inspect(n, f)
}
