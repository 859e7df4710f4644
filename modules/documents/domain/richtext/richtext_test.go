package richtext

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	d := Document{Runs: []Run{
		{Text: "a"},
		{Text: ""},
		{Text: "b"},
		{Text: "c", Style: Style{Bold: true}},
	}}.Normalize()
	assert.Equal(t, []Run{{Text: "ab"}, {Text: "c", Style: Style{Bold: true}}}, d.Runs)
	assert.Equal(t, 3, d.Len())
	assert.Empty(t, New("").Runs)
}

func TestInsertTextInheritsStyle(t *testing.T) {
	t.Parallel()
	d, err := Apply(New("héllo"), SetBold{Start: 0, End: 2, Value: true})
	require.NoError(t, err)

	got, err := Apply(d, InsertText{Pos: 2, Text: "XY"})
	require.NoError(t, err)
	assert.Equal(t, "héXYllo", got.PlainText())
	assert.Equal(t, []Run{
		{Text: "héXY", Style: Style{Bold: true}},
		{Text: "llo"},
	}, got.Runs)

	got, err = Apply(d, InsertText{Pos: 0, Text: ">"})
	require.NoError(t, err)
	assert.Equal(t, Run{Text: ">hé", Style: Style{Bold: true}}, got.Runs[0])

	got, err = Apply(Document{}, InsertText{Pos: 0, Text: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", got.PlainText())
}

func TestDeleteAndRestyle(t *testing.T) {
	t.Parallel()
	d, err := Apply(New("quality record"),
		SetItalic{Start: 0, End: 7, Value: true},
		SetColor{Start: 8, End: 14, Color: "#F00"},
		DeleteRange{Start: 7, End: 8},
		SetUnderline{Start: 0, End: 13, Value: true},
	)
	require.NoError(t, err)
	assert.Equal(t, "qualityrecord", d.PlainText())
	assert.Equal(t, []Run{
		{Text: "quality", Style: Style{Italic: true, Underline: true}},
		{Text: "record", Style: Style{Underline: true, Color: "#f00"}},
	}, d.Runs)

	d, err = Apply(d, SetColor{Start: 7, End: 13, Color: ""}, SetItalic{Start: 0, End: 13, Value: false})
	require.NoError(t, err)
	assert.Equal(t, []Run{{Text: "qualityrecord", Style: Style{Underline: true}}}, d.Runs)
}

func TestApplyErrorsKeepOriginal(t *testing.T) {
	t.Parallel()
	orig := New("abc")

	got, err := Apply(orig, InsertText{Pos: 1, Text: "z"}, DeleteRange{Start: 2, End: 9})
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "op 1")
	assert.Equal(t, orig, got)

	_, err = Apply(orig, InsertText{Pos: -1, Text: "z"})
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = Apply(orig, SetBold{Start: 2, End: 1, Value: true})
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = Apply(orig, SetColor{Start: 0, End: 1, Color: "red"})
	require.ErrorIs(t, err, ErrInvalidColor)
}

func TestDecodeOps(t *testing.T) {
	t.Parallel()
	ops, err := DecodeOps([]byte(`[
		{"kind":"insert_text","pos":0,"text":"Hi "},
		{"kind":"set_bold","start":0,"end":2,"value":true},
		{"kind":"set_color","start":0,"end":2,"color":"#00ff00"},
		{"kind":"delete_range","start":2,"end":3},
		{"kind":"set_italic","start":0,"end":1,"value":true},
		{"kind":"set_underline","start":0,"end":1,"value":false}
	]`))
	require.NoError(t, err)
	require.Len(t, ops, 6)
	assert.Equal(t, InsertText{Pos: 0, Text: "Hi "}, ops[0])
	assert.Equal(t, SetColor{Start: 0, End: 2, Color: "#00ff00"}, ops[2])

	_, err = DecodeOps([]byte(`[{"kind":"explode"}]`))
	require.ErrorIs(t, err, ErrUnknownOp)
}

func TestEnvelopeMarshal(t *testing.T) {
	t.Parallel()
	b, err := json.Marshal([]Envelope{{Op: SetBold{Start: 1, End: 2, Value: true}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"kind":"set_bold","start":1,"end":2,"value":true}]`, string(b))

	ops, err := DecodeOps(b)
	require.NoError(t, err)
	assert.Equal(t, []Op{SetBold{Start: 1, End: 2, Value: true}}, ops)
}

func TestHTML(t *testing.T) {
	t.Parallel()
	d, err := Apply(New("<b>&plain</b> bold red"),
		SetBold{Start: 14, End: 18, Value: true},
		SetColor{Start: 19, End: 22, Color: "#ff0000"},
	)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(d.HTML()))
	require.NoError(t, err)

	spans := doc.Find("div.richtext > span")
	require.Equal(t, 4, spans.Length())
	assert.Equal(t, "<b>&plain</b> ", spans.Eq(0).Text())
	assert.Equal(t, 0, doc.Find("div.richtext b").Length())

	bold, _ := spans.Eq(1).Attr("class")
	assert.Contains(t, strings.Fields(bold), "font-bold")
	assert.NotContains(t, strings.Fields(bold), "font-normal")

	red, _ := spans.Eq(3).Attr("class")
	assert.Contains(t, strings.Fields(red), "text-[#ff0000]")
	assert.NotContains(t, strings.Fields(red), "text-gray-900")
}

func TestHTML_XPath(t *testing.T) {
	t.Parallel()
	d, err := Apply(New("a <i>b</i> c"), SetItalic{Start: 2, End: 10, Value: true})
	require.NoError(t, err)

	root, err := htmlquery.Parse(strings.NewReader(d.HTML()))
	require.NoError(t, err)

	italic := htmlquery.Find(root, "//div[contains(@class,'richtext')]/span[contains(concat(' ', normalize-space(@class), ' '), ' italic ')]")
	require.Len(t, italic, 1)
	assert.Equal(t, "<i>b</i>", htmlquery.InnerText(italic[0]))
	assert.Empty(t, htmlquery.Find(root, "//i"))
	assert.Len(t, htmlquery.Find(root, "//span"), 3)
}
