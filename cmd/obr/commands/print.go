package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/obr/internal/ui/output"
	"go.trai.ch/obr/internal/ui/style"
)

// printer writes command results either as styled text or as JSON.
type printer struct {
	w     io.Writer
	json  bool
	name  lipgloss.Style
	muted lipgloss.Style
	ok    lipgloss.Style
}

func (c *CLI) printer(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(output.ColorProfile())
	return &printer{
		w:     w,
		json:  c.opts.JSON,
		name:  r.NewStyle().Foreground(style.Iris).Bold(true),
		muted: r.NewStyle().Foreground(style.Slate),
		ok:    r.NewStyle().Foreground(style.Green),
	}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// lines prints one value per line, or a JSON array.
func (p *printer) lines(values []string) error {
	if p.json {
		if values == nil {
			values = []string{}
		}
		return p.encode(values)
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(p.w, p.name.Render(v)); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) done(msg string) error {
	if p.json {
		return p.encode(map[string]string{"status": msg})
	}
	_, err := fmt.Fprintln(p.w, p.ok.Render(style.Check)+" "+msg)
	return err
}
