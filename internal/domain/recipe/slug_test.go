package recipe

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Chocolate Chip Cookies", "chocolate-chip-cookies"},
		{"  Grandma's \"Best\" Pie  ", "grandmas-best-pie"},
		{"Mom’s “famous” chili", "moms-famous-chili"},
		{"Crème Brûlée", "creme-brulee"},
		{"Pad Thai -- 2024 edition!!", "pad-thai-2024-edition"},
		{"---", "recipe"},
		{"", "recipe"},
		{"🍕🍕", "recipe"},
		{"日本", "recipe"},
		{"a___b", "a-b"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestSlugify_Shape(t *testing.T) {
	titles := []string{
		"-leading", "trailing-", "  spaced  out  ", "Ünïcödé Stüff", "x", "UPPER lower 123",
		"'quoted'", "tab\tseparated\nlines", strings.Repeat("long title ", 30),
	}
	for _, title := range titles {
		slug := Slugify(title)
		assert.Regexp(t, slugShape, slug, "title %q", title)
		assert.LessOrEqual(t, len(slug), maxSlugLen)
	}
}
