package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nose Pins", "nose-pins"},
		{"Earrings", "earrings"},
		{"  Gold & Silver  ", "gold-silver"},
		{"Crème Brûlée", "creme-brulee"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<p>Handmade <b>gold</b> jhumka.</p><p>Ships in 3 days.</p>")
	assert.Equal(t, "Handmade gold jhumka. Ships in 3 days.", got)
}

func TestStripHTML_PlainTextPassesThrough(t *testing.T) {
	assert.Equal(t, "just text", stripHTML("just text"))
	assert.Empty(t, stripHTML(""))
}

func TestStripHTML_Entities(t *testing.T) {
	got := stripHTML("<p>Gold &amp; silver</p>")
	assert.Equal(t, "Gold & silver", got)
}

func TestHTMLToMarkdown(t *testing.T) {
	got := htmlToMarkdown("<p>Handmade <strong>gold</strong> jhumka</p>")
	assert.Contains(t, got, "**gold**")
}

func TestHTMLToMarkdown_PlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "just a plain description", htmlToMarkdown("just a plain description"))
	assert.Empty(t, htmlToMarkdown(""))
}

func TestContainsHTML(t *testing.T) {
	assert.True(t, containsHTML("<p>hello</p>"))
	assert.True(t, containsHTML("line<br/>break"))
	assert.False(t, containsHTML("price < 100 and quality > everything"))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "gold jhumka", normalizeQuery("  gold   jhumka  "))
}
