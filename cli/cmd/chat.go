package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"

	"github.com/ponyo877/roomchat/cli/directory"
)

var chatCmd = &cobra.Command{
	Use:   "chat <room>",
	Short: "Opens a full-screen chat view of a room",
	Long: `Enters a room, by id or name, in a tview-based interface.
You can type messages at the bottom and see the conversation above.
Ctrl+C leaves the room and closes the view.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ok := controller.Identity()
		if !ok {
			return fmt.Errorf("chat: sign in first")
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		room, err := resolveRoom(ctx, args[0])
		if err == nil {
			err = ensureMember(ctx, room.ID)
		}
		cancel()
		if err != nil {
			return fmt.Errorf("join room: %w", err)
		}
		return runChatUITview(id.Username, room)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// tviewDisplay renders controller reports into the chat view. Reports arrive
// on the session goroutine, so every write is queued to the UI goroutine.
type tviewDisplay struct {
	ui   *tview.Application
	view *tview.TextView
	done func()
}

func (d *tviewDisplay) write(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	d.ui.QueueUpdateDraw(func() {
		fmt.Fprint(d.view, line)
		d.view.ScrollToEnd()
	})
}

func (d *tviewDisplay) ShowMessage(text string) {
	d.write("[white][%s] %s\n", time.Now().Format("15:04:05"), tview.Escape(text))
}

func (d *tviewDisplay) ShowNotice(text string) {
	d.write("[yellow]%s\n", tview.Escape(text))
}

func (d *tviewDisplay) ShowError(err error) {
	d.write("[red]%s\n", tview.Escape(err.Error()))
	d.done()
}

func (d *tviewDisplay) RoomEntered(room directory.Room) {
	d.write("[green]Welcome to %s! (Ctrl+C to exit)\n", tview.Escape(room.Name))
}

func (d *tviewDisplay) RoomLeft(room directory.Room) {
	d.write("[red]Left %s.\n", tview.Escape(room.Name))
	d.done()
}

func runChatUITview(userName string, room directory.Room) error {
	ui := tview.NewApplication()

	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true).
		ScrollToEnd()
	textView.SetBorder(true).SetTitle(" " + room.Name + " ")

	inputField := tview.NewInputField().
		SetLabel(userName + " ❯❯ ").
		SetFieldWidth(0).
		SetAcceptanceFunc(tview.InputFieldMaxLength(1024))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, false).
		AddItem(inputField, 1, 0, true)

	ui.SetRoot(flex, true).SetFocus(inputField)

	// after the session ends the view stays until Ctrl+C, and input is disabled
	d := &tviewDisplay{ui: ui, view: textView}
	d.done = func() {
		ui.QueueUpdateDraw(func() { inputField.SetDisabled(true) })
	}
	controller.SetDisplay(d)
	defer controller.SetDisplay(console)

	if err := controller.Enter(room.ID, room.Name); err != nil {
		return err
	}
	fmt.Fprintf(textView, "[gray]Connecting to %s...\n", tview.Escape(room.Name))

	inputField.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		text := inputField.GetText()
		inputField.SetText("")
		// Say runs the websocket write; keep it off the UI goroutine
		go func() {
			if err := controller.Say(text); err != nil {
				d.write("[red]Failed to send message: %s\n", tview.Escape(err.Error()))
			}
		}()
	})

	ui.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			ui.Stop()
			return nil
		}
		return event
	})

	err := ui.Run()
	// the view is gone; report the leave on the console
	controller.SetDisplay(console)
	if lerr := controller.LeaveRoom(); lerr != nil && err == nil {
		return fmt.Errorf("leave: %w", lerr)
	}
	return err
}
