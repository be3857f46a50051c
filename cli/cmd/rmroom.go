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

// rmroomCmd represents the rmroom command
var rmroomCmd = &cobra.Command{
	Use:               "rmroom <room...>",
	Short:             "Deletes chat rooms.",
	Long:              `Deletes one or more chat rooms by id or name. Leaves the room first if you are inside it.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: RoomCompletionFunc,
	Run: func(cmd *cobra.Command, args []string) {
		for _, arg := range args {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			room, err := resolveRoom(ctx, arg)
			if err == nil {
				err = controller.DeleteRoom(ctx, room.ID)
			}
			cancel()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error removing %s: %v\n", arg, err)
				continue
			}
			fmt.Printf("Removed: #%d\n", room.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(rmroomCmd)
}
