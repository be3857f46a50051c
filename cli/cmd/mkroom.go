/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ponyo877/roomchat/cli/directory"
)

// mkroomCmd represents the mkroom command
var mkroomCmd = &cobra.Command{
	Use:   "mkroom <name...>",
	Short: "Creates chat rooms.",
	Long:  `Creates one or more chat rooms. The creator becomes a member of each room.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			room, err := controller.CreateRoom(ctx, name)
			cancel()
			if errors.Is(err, directory.ErrAlreadyExists) {
				fmt.Fprintf(os.Stderr, "Room already exists: %s\n", name)
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating room %s: %v\n", name, err)
				continue
			}
			rememberRooms(append(cachedRooms(), room))
			fmt.Printf("Created room %s (#%d)\n", room.Name, room.ID)
		}
	},
}

func init() {
	rootCmd.AddCommand(mkroomCmd)
}
