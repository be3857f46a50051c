/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ponyo877/roomchat/cli/session"
)

// sayCmd represents the say command
var sayCmd = &cobra.Command{
	Use:   "say <text...>",
	Short: "Sends a message to the current room.",
	Long: `Sends the arguments, joined by spaces, as one message to the room you
entered. Nothing is sent when you are not inside a room or the text is blank.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if controller.Status().State != session.StateOpen.String() {
			fmt.Fprintln(os.Stderr, "Not inside a room; use enter first.")
			return
		}
		if err := controller.Say(strings.Join(args, " ")); err != nil {
			fmt.Fprintf(os.Stderr, "Error sending message: %v\n", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(sayCmd)
}
