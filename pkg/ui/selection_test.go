package ui_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/sitedrop/pkg/ui"
)

func names(files []ui.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestIsAllowedName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"index.html", true},
		{"about.htm", true},
		{"INDEX.HTML", true},
		{"Page.HtM", true},
		{"style.css", false},
		{"notes.txt", false},
		{"html", false},
		{"index.html.bak", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, ui.IsAllowedName(tt.name)).Equal(tt.want)
		})
	}
}

func TestSelection_Replace(t *testing.T) {
	var sel ui.Selection
	gt.NoError(t, sel.Replace([]ui.File{{Name: "a.html"}, {Name: "b.htm"}}))
	gt.Value(t, names(sel.Files())).Equal([]string{"a.html", "b.htm"})

	t.Run("Batch with a non-HTML file is rejected as a whole", func(t *testing.T) {
		err := sel.Replace([]ui.File{{Name: "c.html"}, {Name: "notes.txt"}, {Name: "d.html"}})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, ui.ErrDisallowedFile))
		gt.Value(t, names(sel.Files())).Equal([]string{"a.html", "b.htm"})
	})

	t.Run("Valid batch replaces instead of appending", func(t *testing.T) {
		gt.NoError(t, sel.Replace([]ui.File{{Name: "new.html"}}))
		gt.Value(t, names(sel.Files())).Equal([]string{"new.html"})
	})

	t.Run("Files returns a copy", func(t *testing.T) {
		files := sel.Files()
		files[0].Name = "mutated.html"
		gt.Value(t, sel.Files()[0].Name).Equal("new.html")
	})
}

func TestSelection_Remove(t *testing.T) {
	var sel ui.Selection
	gt.NoError(t, sel.Replace([]ui.File{
		{Name: "a.html", Size: 10},
		{Name: "b.html", Size: 20},
		{Name: "c.html", Size: 30},
	}))

	sel.Remove(1)
	gt.Value(t, names(sel.Files())).Equal([]string{"a.html", "c.html"})
	gt.Number(t, sel.TotalSize()).Equal(int64(40))

	sel.Remove(-1)
	sel.Remove(5)
	gt.Number(t, sel.Len()).Equal(2)

	sel.Remove(0)
	sel.Remove(0)
	gt.Number(t, sel.Len()).Equal(0)
}
