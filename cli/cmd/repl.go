package cmd

import (
	"fmt"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func runREPL() {
	interactive = true
	defer func() { interactive = false }()

	fmt.Println("entering interactive mode, type 'exit' to quit")
	p := prompt.New(
		executor,
		completer,
		prompt.OptionPrefix("❯❯❯ "),
		prompt.OptionLivePrefix(livePrefix),
		prompt.OptionTitle("roomchat"),
		prompt.OptionSetExitCheckerOnInput(func(in string, breakline bool) bool {
			return breakline && isExit(in)
		}),
	)
	p.Run()
}

func isExit(line string) bool {
	line = strings.TrimSpace(line)
	return line == "exit" || line == "quit"
}

func executor(line string) {
	line = strings.TrimSpace(line)
	if line == "" || isExit(line) {
		return
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing command:", err)
		return
	}
	if len(args) == 0 {
		return
	}
	if err := runCommand(args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
}

// runCommand executes one shell line on the shared command tree. Local flags
// keep their values between executions, so they are reset first.
func runCommand(args []string) error {
	if target, _, err := rootCmd.Find(args); err == nil {
		resetFlags(target)
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.LocalNonPersistentFlags().VisitAll(reset)
}

func livePrefix() (string, bool) {
	if controller == nil {
		return "", false
	}
	st := controller.Status()
	if !st.SignedIn {
		return "", false
	}
	if st.RoomName != "" {
		return fmt.Sprintf("%s@%s ❯❯❯ ", st.Identity.Username, st.RoomName), true
	}
	return st.Identity.Username + " ❯❯❯ ", true
}

var roomArgCommands = map[string]bool{
	"enter": true, "chat": true, "tail": true, "join": true, "rmroom": true,
}

func completer(d prompt.Document) []prompt.Suggest {
	words := strings.Fields(d.TextBeforeCursor())
	current := d.GetWordBeforeCursor()
	if len(words) == 0 || (len(words) == 1 && current != "") {
		return prompt.FilterHasPrefix(commandSuggestions(), current, true)
	}
	if roomArgCommands[words[0]] {
		var s []prompt.Suggest
		for _, r := range cachedRooms() {
			s = append(s, prompt.Suggest{Text: r.Name, Description: fmt.Sprintf("#%d", r.ID)})
		}
		return prompt.FilterHasPrefix(s, current, true)
	}
	return nil
}

func commandSuggestions() []prompt.Suggest {
	var s []prompt.Suggest
	for _, c := range rootCmd.Commands() {
		if c.Hidden || c.Name() == "help" || c.Name() == "completion" {
			continue
		}
		s = append(s, prompt.Suggest{Text: c.Name(), Description: c.Short})
	}
	return append(s, prompt.Suggest{Text: "exit", Description: "Leaves the room and quits."})
}
