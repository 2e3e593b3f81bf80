package keytree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mouse-blink/auditor/internal/source"
)

// ErrControlCharacter marks a document whose strings contain raw control
// characters. Such documents are recoverable through the fallback paths.
var ErrControlCharacter = errors.New("invalid control character in string")

// DecodeError is returned for documents that cannot be decoded at all.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether err allows a fallback decode.
func Recoverable(err error) bool {
	return errors.Is(err, ErrControlCharacter)
}

// Parse decodes raw into a key tree. A recoverable error yields a partial
// tree from FallbackRootKeys and a nil error; any other failure returns a
// *DecodeError.
func Parse(raw string) (*Tree, error) {
	root, err := decode(raw, nil)
	if err == nil {
		return &Tree{Root: root}, nil
	}

	if !Recoverable(err) {
		return nil, err
	}

	return fallbackTree(raw, err), nil
}

// ParseLenient escapes raw control characters inside strings before
// decoding. Lines still refer to raw.
func ParseLenient(raw string) (*Tree, error) {
	sanitized, offsets, changed := sanitize(raw)

	root, err := decode(sanitized, &offsetMap{raw: raw, offsets: offsets})
	if err != nil {
		return nil, err
	}

	tree := &Tree{Root: root}
	if changed {
		tree.Recovered = ErrControlCharacter
	}

	return tree, nil
}

// RootKeys returns the root keys of raw in declaration order, using the
// line-oriented fallback when the document has raw control characters.
func RootKeys(raw string) ([]KeyLine, error) {
	root, err := decode(raw, nil)
	if err == nil {
		return (&Tree{Root: root}).RootKeys(), nil
	}

	if Recoverable(err) {
		return FallbackRootKeys(raw), nil
	}

	return nil, err
}

// offsetMap translates offsets in sanitized text back to the original.
type offsetMap struct {
	raw     string
	offsets []int
}

func (m *offsetMap) original(offset int) int {
	if offset < len(m.offsets) {
		return m.offsets[offset]
	}

	return len(m.raw)
}

type decoder struct {
	dec   *json.Decoder
	data  string
	lines *source.LineIndex
	omap  *offsetMap
}

func decode(data string, omap *offsetMap) (*Value, error) {
	// A byte order mark is blanked rather than cut so offsets stay put.
	if strings.HasPrefix(data, "\ufeff") {
		data = "   " + data[3:]
	}

	lineSource := data
	if omap != nil {
		lineSource = omap.raw
	}

	d := &decoder{
		dec:   json.NewDecoder(strings.NewReader(data)),
		data:  data,
		lines: source.NewLineIndex(lineSource),
		omap:  omap,
	}
	d.dec.UseNumber()

	root, err := d.value()
	if err != nil {
		return nil, err
	}

	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, d.wrap(errors.New("unexpected data after top-level value"))
	}

	return root, nil
}

// line maps an offset in the decoded data to a line of the original text.
func (d *decoder) line(offset int) int {
	if d.omap != nil {
		offset = d.omap.original(offset)
	}

	return d.lines.Line(offset)
}

// start returns the offset where the next token begins.
func (d *decoder) start() int {
	i := int(d.dec.InputOffset())
	for i < len(d.data) {
		switch d.data[i] {
		case ' ', '\t', '\r', '\n', ':', ',':
			i++
			continue
		}

		break
	}

	return i
}

func (d *decoder) token() (json.Token, int, error) {
	start := d.start()

	tok, err := d.dec.Token()
	if err != nil {
		return nil, start, d.wrap(err)
	}

	return tok, start, nil
}

func (d *decoder) value() (*Value, error) {
	tok, start, err := d.token()
	if err != nil {
		return nil, err
	}

	return d.valueFrom(tok, start)
}

func (d *decoder) valueFrom(tok json.Token, start int) (*Value, error) {
	v := &Value{Line: d.line(start)}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v.Kind = Object
			return v, d.members(v)
		case '[':
			v.Kind = Array
			return v, d.items(v)
		}

		return nil, d.wrap(fmt.Errorf("unexpected delimiter %q", t))
	case string:
		v.Type, v.Text = String, t
	case json.Number:
		v.Type, v.Text = Number, t.String()
	case bool:
		v.Type, v.Text = Bool, fmt.Sprint(t)
	case nil:
		v.Type = Null
	}

	return v, nil
}

func (d *decoder) members(obj *Value) error {
	for d.dec.More() {
		tok, start, err := d.token()
		if err != nil {
			return err
		}

		key, ok := tok.(string)
		if !ok {
			return d.wrap(fmt.Errorf("object key is %v", tok))
		}

		val, err := d.value()
		if err != nil {
			return err
		}

		obj.set(&Member{Key: key, Line: d.line(start), Value: val})
	}

	_, _, err := d.token() // '}'

	return err
}

func (d *decoder) items(arr *Value) error {
	for d.dec.More() {
		val, err := d.value()
		if err != nil {
			return err
		}

		arr.Items = append(arr.Items, val)
	}

	_, _, err := d.token() // ']'

	return err
}

// wrap classifies a decode failure. The reported line is where the failing
// token starts.
func (d *decoder) wrap(err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}

	var syn *json.SyntaxError
	if errors.As(err, &syn) && strings.Contains(syn.Error(), "in string literal") {
		err = fmt.Errorf("%w: %v", ErrControlCharacter, syn)
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = fmt.Errorf("unexpected end of document: %w", err)
	}

	return &DecodeError{Line: d.line(d.start()), Err: err}
}

// sanitize escapes control characters inside string literals. offsets[i] is
// the original offset of sanitized byte i.
func sanitize(raw string) (string, []int, bool) {
	var buf bytes.Buffer

	offsets := make([]int, 0, len(raw)+16)
	inString, escaped, changed := false, false, false

	emit := func(s string, orig int) {
		buf.WriteString(s)

		for range len(s) {
			offsets = append(offsets, orig)
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		switch {
		case !inString:
			if c == '"' {
				inString = true
			}
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = false
		case c < 0x20:
			changed = true

			emit(escapeControl(c), i)

			continue
		}

		buf.WriteByte(c)
		offsets = append(offsets, i)
	}

	return buf.String(), offsets, changed
}

func escapeControl(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	}

	return fmt.Sprintf(`\u%04x`, c)
}
