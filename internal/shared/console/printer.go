// Package console prints the human-facing progress lines of the kml CLI.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/color"
	"github.com/mattn/go-isatty"
)

// Printer writes one coloured line per call. Colours are only emitted on terminals.
type Printer struct {
	out   io.Writer
	color *color.Color
}

func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	c := color.New()
	c.SetOutput(w)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) && os.Getenv("NO_COLOR") == "" {
		c.Enable()
	} else {
		c.Disable()
	}
	return &Printer{out: w, color: c}
}

func (p *Printer) line(s string) {
	fmt.Fprintln(p.out, s)
}

func (p *Printer) Header(msg string) { p.line("\n" + p.color.Bold(msg)) }

func (p *Printer) Rule() { p.line(p.color.Cyan(strings.Repeat("=", 37))) }

func (p *Printer) Section(msg string) { p.line("\n" + p.color.Cyan("🔍 "+msg)) }

func (p *Printer) Success(msg string) { p.line(p.color.Green("✅ " + msg)) }

func (p *Printer) Error(msg string) { p.line(p.color.Red("❌ " + msg)) }

func (p *Printer) Warning(msg string) { p.line(p.color.Yellow("⚠️  " + msg)) }

func (p *Printer) Info(msg string) { p.line(p.color.Blue("ℹ️  " + msg)) }

func (p *Printer) Skip(msg string) { p.line(p.color.Yellow("⏭️  " + msg)) }

func (p *Printer) Progress(msg string) { p.line(p.color.Cyan("📝 " + msg)) }

// Detail prints an indented line in the named colour (blue, yellow, green or cyan).
func (p *Printer) Detail(colour, msg string) {
	msg = "   " + msg
	switch colour {
	case "yellow":
		msg = p.color.Yellow(msg)
	case "green":
		msg = p.color.Green(msg)
	case "cyan":
		msg = p.color.Cyan(msg)
	default:
		msg = p.color.Blue(msg)
	}
	p.line(msg)
}

// Confirm asks question and accepts "y" or "yes". EOF and read errors count as no.
func (p *Printer) Confirm(in io.Reader, question string) bool {
	fmt.Fprint(p.out, "\n❓ "+question+" (y/N): ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
