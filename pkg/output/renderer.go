package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/rigkit/pkg/logging"
	"github.com/arthur-debert/rigkit/pkg/output/styles"
)

// Renderer is the common interface of the output formats
type Renderer interface {
	// Render writes a command report
	Render(r *Report) error
	// RenderError writes an error
	RenderError(err error) error
	// RenderMessage writes a one-line message
	RenderMessage(msg string) error
}

// NewRenderer creates a renderer for format. FormatAuto inspects the writer
// when it is a file and falls back to plain text otherwise.
func NewRenderer(format Format, w io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := w.(*os.File); ok {
			detected := DetectFormat(file)
			logger := logging.GetLogger("output")
			logger.Debug().Str("format", detected.String()).Msg("detected output format")
			return NewRenderer(detected, w)
		}
		return NewRenderer(FormatText, w)
	case FormatTerminal:
		return &termRenderer{w: w, lg: lipgloss.NewRenderer(w)}, nil
	case FormatText:
		return &textRenderer{w: w}, nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return &jsonRenderer{enc: enc}, nil
	}
	return nil, fmt.Errorf("unknown format: %v", format)
}

type textRenderer struct {
	w io.Writer
}

func (r *textRenderer) Render(rep *Report) error {
	var b strings.Builder
	b.WriteString(rep.Title + "\n")
	for _, s := range rep.Sections {
		b.WriteString("\n" + s.Title + "\n")
		for _, row := range s.Rows {
			b.WriteString(strings.Repeat("  ", row.Depth+1) + row.Key)
			if row.Value != "" {
				b.WriteString(": " + row.Value)
			}
			b.WriteString("\n")
		}
	}
	for _, w := range rep.Warnings {
		b.WriteString("warning: " + w + "\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *textRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.w, "Error: %v\n", err)
	return werr
}

func (r *textRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, msg)
	return err
}

type termRenderer struct {
	w  io.Writer
	lg *lipgloss.Renderer
}

func (r *termRenderer) style(name string) lipgloss.Style {
	return r.lg.NewStyle().Inherit(styles.GetStyle(name))
}

var stateStyles = map[State]string{
	StateVisible: "Visible",
	StateHidden:  "Hidden",
	StateOn:      "On",
	StateOff:     "Off",
	StateWarning: "Warning",
}

func (r *termRenderer) Render(rep *Report) error {
	var b strings.Builder
	b.WriteString(r.style("Header").Render(rep.Title) + "\n")
	for _, s := range rep.Sections {
		b.WriteString("\n" + r.style("Section").Render(s.Title) + "\n")
		for _, row := range s.Rows {
			indent := strings.Repeat("  ", row.Depth+1)
			key := r.style("Key").Render(row.Key)
			if row.Value == "" {
				key = r.style("Info").Render(row.Key)
			}
			valueStyle := "Value"
			if name, ok := stateStyles[row.State]; ok {
				valueStyle = name
			}
			b.WriteString(indent + key)
			if row.Value != "" {
				b.WriteString(" " + r.style(valueStyle).Render(row.Value))
			}
			b.WriteString("\n")
		}
	}
	for _, w := range rep.Warnings {
		b.WriteString(r.style("Warning").Render("warning: "+w) + "\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *termRenderer) RenderError(err error) error {
	_, werr := fmt.Fprintln(r.w, r.style("Error").Render("Error:")+" "+err.Error())
	return werr
}

func (r *termRenderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.w, r.style("Info").Render(msg))
	return err
}

type jsonRenderer struct {
	enc *json.Encoder
}

func (r *jsonRenderer) Render(rep *Report) error {
	return r.enc.Encode(rep)
}

func (r *jsonRenderer) RenderError(err error) error {
	return r.enc.Encode(map[string]string{"error": err.Error()})
}

func (r *jsonRenderer) RenderMessage(msg string) error {
	return r.enc.Encode(map[string]string{"message": msg})
}
