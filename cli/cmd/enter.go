/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ponyo877/roomchat/cli/directory"
)

// enterCmd represents the enter command
var enterCmd = &cobra.Command{
	Use:   "enter <room>",
	Short: "Enters a room and starts relaying messages.",
	Long: `Opens the real-time connection to a room, by id or name, joining it first
if needed. Only one room can be entered at a time; leave it before entering
another.

In the interactive shell, messages are printed as they arrive and "say"
sends. Run as a single command, every line read from stdin is sent until
EOF, "/leave" or Ctrl+C.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		room, err := resolveRoom(ctx, args[0])
		if err == nil {
			err = ensureMember(ctx, room.ID)
		}
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error joining room: %v\n", err)
			return
		}

		if interactive {
			if err := controller.Enter(room.ID, room.Name); err != nil {
				fmt.Fprintf(os.Stderr, "Error entering room: %v\n", err)
			}
			return
		}
		if err := follow(room, true); err != nil {
			fmt.Fprintf(os.Stderr, "Error entering room: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(enterCmd)
}

// followDisplay prints like the console and reports when the room ends.
type followDisplay struct {
	*consoleDisplay
	once  sync.Once
	ended chan struct{}
}

func (d *followDisplay) end() { d.once.Do(func() { close(d.ended) }) }

func (d *followDisplay) RoomLeft(room directory.Room) {
	d.consoleDisplay.RoomLeft(room)
	d.end()
}

func (d *followDisplay) ShowError(err error) {
	d.consoleDisplay.ShowError(err)
	d.end()
}

// follow enters room and blocks until the session ends or the user stops it.
// With input set, stdin lines are sent to the room.
func follow(room directory.Room, input bool) error {
	d := &followDisplay{consoleDisplay: console, ended: make(chan struct{})}
	controller.SetDisplay(d)
	defer controller.SetDisplay(console)

	if err := controller.Enter(room.ID, room.Name); err != nil {
		return err
	}
	defer controller.LeaveRoom()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lines chan string
	if input {
		lines = make(chan string)
		go func() {
			defer close(lines)
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				select {
				case lines <- scanner.Text():
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-d.ended:
			return nil
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "/leave" {
				return nil
			}
			if err := controller.Say(line); err != nil {
				d.ShowError(err)
			}
		}
	}
}
