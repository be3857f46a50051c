/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// tailCmd represents the tail command
var tailCmd = &cobra.Command{
	Use:   "tail <room>",
	Short: "Prints the messages of a room as they arrive.",
	Long: `Enters a room, by id or name, and prints every message until the
connection ends or Ctrl+C is pressed. Nothing is sent.`,
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
		if err := follow(room, false); err != nil {
			fmt.Fprintf(os.Stderr, "Error following %s: %v\n", args[0], err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tailCmd)
}
