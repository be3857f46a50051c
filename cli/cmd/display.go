package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/ponyo877/roomchat/cli/directory"
)

// consoleDisplay prints controller reports as plain lines.
type consoleDisplay struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func newConsoleDisplay(out, errOut io.Writer) *consoleDisplay {
	return &consoleDisplay{out: out, errOut: errOut}
}

func (d *consoleDisplay) ShowMessage(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintln(d.out, text)
}

func (d *consoleDisplay) ShowNotice(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "* %s\n", text)
}

func (d *consoleDisplay) ShowError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.errOut, "Error: %v\n", err)
}

func (d *consoleDisplay) RoomEntered(room directory.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "* entered %s (#%d)\n", room.Name, room.ID)
}

func (d *consoleDisplay) RoomLeft(room directory.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "* left %s (#%d)\n", room.Name, room.ID)
}
