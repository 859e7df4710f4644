package richtext

import (
	"encoding/json"
	"errors"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/simple-lms/console/pkg/serrors"
)

var (
	ErrOutOfRange   = serrors.NewError("RICHTEXT_OUT_OF_RANGE", "position out of range", "Documents.Errors.OutOfRange")
	ErrInvalidColor = serrors.NewError("RICHTEXT_INVALID_COLOR", "invalid color", "Documents.Errors.InvalidColor")
	ErrUnknownOp    = serrors.NewError("RICHTEXT_UNKNOWN_OP", "unknown operation", "Documents.Errors.UnknownOp")
)

var colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

const (
	KindInsertText   = "insert_text"
	KindDeleteRange  = "delete_range"
	KindSetBold      = "set_bold"
	KindSetItalic    = "set_italic"
	KindSetUnderline = "set_underline"
	KindSetColor     = "set_color"
)

// Op is a typed edit.
type Op interface {
	Kind() string
	Apply(d Document) (Document, error)
}

type InsertText struct {
	Pos  int    `json:"pos"`
	Text string `json:"text"`
}

type DeleteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type SetBold struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Value bool `json:"value"`
}

type SetItalic struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Value bool `json:"value"`
}

type SetUnderline struct {
	Start int  `json:"start"`
	End   int  `json:"end"`
	Value bool `json:"value"`
}

// SetColor sets a #rgb or #rrggbb color; an empty Color clears it.
type SetColor struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}

func (InsertText) Kind() string   { return KindInsertText }
func (DeleteRange) Kind() string  { return KindDeleteRange }
func (SetBold) Kind() string      { return KindSetBold }
func (SetItalic) Kind() string    { return KindSetItalic }
func (SetUnderline) Kind() string { return KindSetUnderline }
func (SetColor) Kind() string     { return KindSetColor }

func outOfRange(format string, args ...any) error {
	return serrors.Wrapf(ErrOutOfRange, format, args...)
}

func checkRange(d Document, start, end int) error {
	if start < 0 || end < start || end > d.Len() {
		return outOfRange("[%d,%d) in document of length %d", start, end, d.Len())
	}
	return nil
}

func (op InsertText) Apply(d Document) (Document, error) {
	if op.Pos < 0 || op.Pos > d.Len() {
		return d, outOfRange("%d in document of length %d", op.Pos, d.Len())
	}
	style := d.StyleAt(op.Pos)
	chars := d.chars()
	inserted := make([]Run, 0, len(op.Text))
	for _, ch := range op.Text {
		inserted = append(inserted, Run{Text: string(ch), Style: style})
	}
	chars = slices.Insert(chars, op.Pos, inserted...)
	return Document{Runs: chars}.Normalize(), nil
}

func (op DeleteRange) Apply(d Document) (Document, error) {
	if err := checkRange(d, op.Start, op.End); err != nil {
		return d, err
	}
	chars := slices.Delete(d.chars(), op.Start, op.End)
	return Document{Runs: chars}.Normalize(), nil
}

func restyle(d Document, start, end int, fn func(*Style)) (Document, error) {
	if err := checkRange(d, start, end); err != nil {
		return d, err
	}
	chars := d.chars()
	for i := start; i < end; i++ {
		fn(&chars[i].Style)
	}
	return Document{Runs: chars}.Normalize(), nil
}

func (op SetBold) Apply(d Document) (Document, error) {
	return restyle(d, op.Start, op.End, func(s *Style) { s.Bold = op.Value })
}

func (op SetItalic) Apply(d Document) (Document, error) {
	return restyle(d, op.Start, op.End, func(s *Style) { s.Italic = op.Value })
}

func (op SetUnderline) Apply(d Document) (Document, error) {
	return restyle(d, op.Start, op.End, func(s *Style) { s.Underline = op.Value })
}

func (op SetColor) Apply(d Document) (Document, error) {
	color := strings.ToLower(strings.TrimSpace(op.Color))
	if color != "" && !colorRe.MatchString(color) {
		return d, serrors.Wrapf(ErrInvalidColor, "%q", op.Color)
	}
	return restyle(d, op.Start, op.End, func(s *Style) { s.Color = color })
}

// Apply runs ops in order. On error the original document is returned
// together with the index of the failing op in the message.
func Apply(d Document, ops ...Op) (Document, error) {
	out := d.Normalize()
	for i, op := range ops {
		next, err := op.Apply(out)
		if err != nil {
			var be *serrors.BaseError
			if errors.As(err, &be) {
				return d, serrors.Wrapf(be, "op %d", i)
			}
			return d, err
		}
		out = next
	}
	return out, nil
}

// Envelope is the wire form of an Op: {"kind": "...", ...fields}.
type Envelope struct {
	Op Op
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Op == nil {
		return nil, ErrUnknownOp
	}
	body, err := json.Marshal(e.Op)
	if err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(e.Op.Kind())
	if string(body) == "{}" {
		return []byte(`{"kind":` + string(kind) + `}`), nil
	}
	return append([]byte(`{"kind":`+string(kind)+`,`), body[1:]...), nil
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var op Op
	switch head.Kind {
	case KindInsertText:
		var v InsertText
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		op = v
	case KindDeleteRange:
		var v DeleteRange
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		op = v
	case KindSetBold:
		var v SetBold
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		op = v
	case KindSetItalic:
		var v SetItalic
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		op = v
	case KindSetUnderline:
		var v SetUnderline
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		op = v
	case KindSetColor:
		var v SetColor
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		op = v
	default:
		return serrors.Wrapf(ErrUnknownOp, "kind %s", strconv.Quote(head.Kind))
	}
	e.Op = op
	return nil
}

// DecodeOps parses a JSON array of op envelopes.
func DecodeOps(data []byte) ([]Op, error) {
	var envs []Envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, err
	}
	ops := make([]Op, 0, len(envs))
	for _, e := range envs {
		ops = append(ops, e.Op)
	}
	return ops, nil
}
