// Package frames prints raw gateway traffic for the watch --debug command.
package frames

import (
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const defaultWidth = 79

const indent = "    "

// Debugger writes every frame to w, wrapped to Width columns and prefixed by
// its direction.
type Debugger struct {
	mu    sync.Mutex
	w     io.Writer
	Width int
}

func NewDebugger(w io.Writer) *Debugger {
	return &Debugger{w: w, Width: defaultWidth}
}

func (d *Debugger) Incoming(b []byte) {
	d.write(color.CyanString("<<<"), string(b))
}

func (d *Debugger) Outgoing(b []byte) {
	d.write(color.GreenString(">>>"), string(b))
}

func (d *Debugger) Error(err error) {
	d.write(color.New(color.FgBlack, color.BgRed).Sprint("ERR"), err.Error())
}

func (d *Debugger) write(prefix, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, _ = io.WriteString(d.w, prefix+" "+wrap(text, d.Width-len(indent))+"\n")
}

func wrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var b strings.Builder
	for len(text) > width {
		b.WriteString(text[:width])
		b.WriteString("\n" + indent)
		text = text[width:]
	}
	b.WriteString(text)
	return b.String()
}
