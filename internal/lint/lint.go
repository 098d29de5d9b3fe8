// Package lint runs the semantic rules over a parsed HiFi.conf.
//
// Rules are independent of each other. Each one reads the syntax tree and
// reports findings to a diag.Sink; none of them stops the others. Items
// whose value could not be parsed (ast.Unparsable) count as present for
// required-key rules, but their content is not checked again since the
// parser already reported them.
package lint

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/ast"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/device"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/types"
)

// Keys checked by the rules.
const (
	keyFullySpecifiedUCM = "FullySpecifiedUCM"
	keyCdev              = "cdev"
	keyPlaybackPCM       = "PlaybackPCM"
	keyCapturePCM        = "CapturePCM"
	keyJackDev           = "JackDev"
	keyJackSwitch        = "JackSwitch"
	keyEDIDFile          = "EDIDFile"
	keyPlaybackChannels  = "PlaybackChannels"
)

const maxCardIDLen = 15

// CardID derives the ALSA card id from a card name: '-' and '_' are
// removed and the result is cut to 15 characters (runes, not bytes).
// Invalid UTF-8 bytes become U+FFFD.
func CardID(cardName string) string {
	r := []rune(strings.NewReplacer("-", "", "_", "").Replace(cardName))
	if len(r) > maxCardIDLen {
		r = r[:maxCardIDLen]
	}
	return string(r)
}

// Linter checks documents of one sound card.
type Linter struct {
	card   string
	cardID string
	sink   diag.Sink
	types.Logger
}

// New returns a Linter for the card name, reporting to sink. Pass nil for
// logger to disable logging.
func New(cardName string, sink diag.Sink, logger *slog.Logger) *Linter {
	if sink == nil {
		sink = diag.Discard
	}
	return &Linter{
		card:   cardName,
		cardID: CardID(cardName),
		sink:   sink,
		Logger: types.Logger{L: logger},
	}
}

// Lint is shorthand for New(cardName, sink, nil).Document(doc).
func Lint(doc *ast.Document, cardName string, sink diag.Sink) {
	New(cardName, sink, nil).Document(doc)
}

// Document applies every rule to doc.
func (l *Linter) Document(doc *ast.Document) {
	l.Log(slog.LevelDebug, "linting document",
		slog.String("path", doc.Path),
		slog.String("card", l.card),
		slog.String("card_id", l.cardID))
	l.Verb(doc.Verb)
	for _, dev := range doc.Devices {
		l.Device(dev)
	}
}

// Verb checks the SectionVerb: its Value block holds exactly
// FullySpecifiedUCM "1", and its sequences start with the card's cdev.
func (l *Linter) Verb(verb *ast.Section) {
	const want = `Should have exactly one item: FullySpecifiedUCM "1"`
	switch items := verb.Value.Items; {
	case len(items) != 1:
		l.warn(verb.Value, diag.CodeVerbValue, want)
	case items[0].Key != keyFullySpecifiedUCM,
		!items[0].Opaque() && items[0].Value != "1":
		l.warn(items[0], diag.CodeVerbValue, want)
	}
	for _, seq := range verb.Sequences() {
		l.Sequence(seq)
	}
}

// Sequence checks that a non-empty sequence starts with
// `cdev "hw:<card id>"`. The diagnostic points at the line after the
// sequence header, where the first item is expected.
func (l *Linter) Sequence(seq *ast.Block) {
	if seq.Empty() {
		return
	}
	hw := "hw:" + l.cardID
	first := seq.Items[0]
	if first.Key == keyCdev && (first.Opaque() || first.Value == hw) {
		return
	}
	l.sink.Add(diag.Diagnostic{
		Path:    seq.Path,
		Line:    seq.Line + 1,
		Code:    diag.CodeSequenceCdev,
		Message: fmt.Sprintf("first item should be `%s %q`", keyCdev, hw),
	})
}

// Device checks a SectionDevice according to its device type. Unknown
// device names get one diagnostic and no further checks.
func (l *Linter) Device(dev *ast.Section) {
	t, ok := device.Classify(dev.Name)
	if !ok {
		l.warn(dev, diag.CodeDeviceName, fmt.Sprintf("invalid device name `%s`", dev.Name))
		return
	}
	l.Log(slog.LevelDebug, "linting device",
		slog.String("name", dev.Name),
		slog.String("type", t.String()),
		slog.Int("line", dev.Line))

	l.checkPCM(dev, t)
	l.checkJack(dev, t)
	if t == device.HDMI && dev.Value.Get(keyEDIDFile) == nil {
		l.warn(dev.Value, diag.CodeEDIDMissing,
			fmt.Sprintf("Value EDIDFile is required for `%s`.", dev.Name))
	}
	if ch := dev.Value.Get(keyPlaybackChannels); ch != nil {
		l.warn(ch, diag.CodePlaybackChannels, "PlaybackChannels is only used for workarounds")
	}
	for _, seq := range dev.Sequences() {
		l.Sequence(seq)
	}
}

// checkPCM requires the PCM key of the device's direction with the card's
// hw prefix, and rejects the PCM key of the other direction.
func (l *Linter) checkPCM(dev *ast.Section, t device.Type) {
	want, unwanted := keyCapturePCM, keyPlaybackPCM
	if t.IsPlayback() {
		want, unwanted = keyPlaybackPCM, keyCapturePCM
	}
	prefix := "hw:" + l.cardID + ","

	if pcm := dev.Value.Get(want); pcm != nil {
		if !pcm.Opaque() && !strings.HasPrefix(pcm.Value, prefix) {
			l.warn(pcm, diag.CodePCMPrefix, fmt.Sprintf("`%s` should have prefix `%s`", want, prefix))
		}
	} else {
		l.warn(dev.Value, diag.CodePCMMissing, fmt.Sprintf("Value `%s` is required for `%s`", want, dev.Name))
	}
	if pcm := dev.Value.Get(unwanted); pcm != nil {
		l.warn(pcm, diag.CodePCMForbidden, fmt.Sprintf("`%s` is invalid for `%s`", unwanted, dev.Name))
	}
}

// checkJack requires a JackDev named after the card on jack-detected
// devices and, once present, the JackSwitch code of the device type.
func (l *Linter) checkJack(dev *ast.Section, t device.Type) {
	if !t.HasJack() {
		return
	}
	jackDev := dev.Value.Get(keyJackDev)
	if jackDev == nil {
		l.warn(dev.Value, diag.CodeJackDevMissing,
			fmt.Sprintf("Value `JackDev` is required for `%s`. Run `evtest` to check the name.", dev.Name))
		return
	}
	if !jackDev.Opaque() && !strings.HasPrefix(jackDev.Value, l.card+" ") {
		l.warn(jackDev, diag.CodeJackDevPrefix,
			fmt.Sprintf("`JackDev` should start with `%s`. Check with `evtest`.", l.card))
	}

	code, ok := t.JackSwitch()
	if !ok {
		return
	}
	want := strconv.Itoa(code)
	const see = `See "Switch events" in include/uapi/linux/input-event-codes.h`
	switch sw := dev.Value.Get(keyJackSwitch); {
	case sw == nil:
		l.warn(dev.Value, diag.CodeJackSwitchMissing,
			fmt.Sprintf("Value JackSwitch `%s` required for `%s`. %s", want, dev.Name, see))
	case !sw.Opaque() && sw.Value != want:
		l.warn(sw, diag.CodeJackSwitchMismatch,
			fmt.Sprintf("JackSwitch `%s` required for `%s`. %s", want, dev.Name, see))
	}
}

func (l *Linter) warn(n ast.Node, code, msg string) {
	pos := n.Position()
	if l.TraceEnabled() {
		l.Trace("diagnostic", slog.Int("line", pos.Line), slog.String("code", code))
	}
	l.sink.Add(diag.Diagnostic{Path: pos.Path, Line: pos.Line, Code: code, Message: msg})
}
