package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, doc string) string {
	t.Helper()
	text, err := Render(strings.NewReader(doc))
	require.NoError(t, err)
	return text
}

func TestRender_Blocks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "paragraphs and emphasis",
			doc:  "<html><body><p>Hello <b>World</b></p><p>Second</p></body></html>",
			want: "Hello  World\nSecond",
		},
		{
			name: "emphasis keeps words apart",
			doc:  "<p>John<strong>Doe</strong><em>CEO</em></p>",
			want: "John Doe  CEO",
		},
		{
			name: "line breaks",
			doc:  "<div>John Doe<br>Senior Developer<br/>Tech Company</div>",
			want: "John Doe\nSenior Developer\nTech Company",
		},
		{
			name: "headings and tables",
			doc:  "<h2>Title</h2><table><tr><td>A</td></tr><tr><td>B</td></tr></table>",
			want: "Title\nA\nB",
		},
		{
			name: "discarded elements",
			doc:  "<html><head><title>Subject</title><style>.a{color:red}</style></head><body><script>var x;</script><p>Body</p></body></html>",
			want: "Body",
		},
		{
			name: "whitespace collapsed",
			doc:  "<p>Many    spaces\n\tand\nnewlines</p>",
			want: "Many spaces and newlines",
		},
		{
			name: "non-breaking spaces",
			doc:  "<p>A&nbsp;&nbsp; B</p>",
			want: "A B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.doc))
		})
	}
}

func TestRender_Dividers(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"hr", "<p>Above</p><hr><p>Below</p>", "Above\n\n" + Divider + "\nBelow"},
		{"bordered div", `<div style="border-top: solid 1px #ccc">Box</div>`, "\n" + Divider + "\nBox"},
		{"long hyphen text", "<p>Text</p><p>" + strings.Repeat("-", 30) + "</p>", "Text\n\n" + Divider},
		{"short hyphen text kept", "<p>-----</p>", "-----"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.doc))
		})
	}
}

func TestRender_Lists(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unordered",
			doc:  "<ul><li>One</li><li>Two</li></ul>",
			want: "\n* One\n* Two",
		},
		{
			name: "decimal",
			doc:  "<ol><li>First</li><li>Second</li><li>Third</li></ol>",
			want: "\n1. First\n2. Second\n3. Third",
		},
		{
			name: "nested letters with start",
			doc:  `<ul><li>One</li><li>Two<ol type="A" start="2"><li>Alpha</li><li>Beta</li></ol></li></ul>`,
			want: "\n* One\n* Two\nB. Alpha\nC. Beta",
		},
		{
			name: "lower roman",
			doc:  `<ol type="i" start="4"><li>x</li><li>y</li></ol>`,
			want: "\niv. x\nv. y",
		},
		{
			name: "upper roman",
			doc:  `<ol type="I" start="9"><li>x</li></ol>`,
			want: "\nIX. x",
		},
		{
			name: "lower letters wrap",
			doc:  `<ol type="a" start="27"><li>x</li></ol>`,
			want: "\na. x",
		},
		{
			name: "stray item",
			doc:  "<li>Loose</li>",
			want: "Loose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.doc))
		})
	}
}

func TestRender_Links(t *testing.T) {
	text := render(t, `<p>Follow <a href="https://x.com/jd">@jd</a> or <a href="mailto:jd@example.com"><span>Email</span></a></p>`)
	assert.Equal(t, `Follow <a href="https://x.com/jd">@jd</a> or <a href="mailto:jd@example.com">Email</a>`, text)
}

func TestConvert(t *testing.T) {
	body := "preamble\r\n<HTML><body><div>John Doe</div>\r\n<div>Senior Engineer</div></body></HTML>\r\ntrailer"

	text, err := Convert(body)
	require.NoError(t, err)
	assert.Equal(t, "John Doe\n\nSenior Engineer", text)
}

func TestConvert_NoHTML(t *testing.T) {
	_, err := Convert("just plain text")
	assert.ErrorIs(t, err, ErrNoHTMLContent)
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "3", ordinal(3, "1"))
	assert.Equal(t, "C", ordinal(3, "A"))
	assert.Equal(t, "c", ordinal(3, "a"))
	assert.Equal(t, "MCMXCIV", ordinal(1994, "I"))
	assert.Equal(t, "xl", ordinal(40, "i"))
	assert.Equal(t, "", roman(0))
}
