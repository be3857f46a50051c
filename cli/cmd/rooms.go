/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ponyo877/roomchat/cli/directory"
)

// roomCache remembers the last listed rooms for name lookup and completion.
var roomCache struct {
	sync.Mutex
	rooms []directory.Room
}

func rememberRooms(rooms []directory.Room) {
	roomCache.Lock()
	defer roomCache.Unlock()
	roomCache.rooms = append(roomCache.rooms[:0], rooms...)
}

func cachedRooms() []directory.Room {
	roomCache.Lock()
	defer roomCache.Unlock()
	return append([]directory.Room(nil), roomCache.rooms...)
}

// roomsCmd represents the rooms command
var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Lists all chat rooms.",
	Long:  `Lists every chat room known to the server with its id.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		rooms, err := controller.Rooms(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing rooms: %v\n", err)
			return
		}
		rememberRooms(rooms)
		printRooms(os.Stdout, rooms)
	},
}

func init() {
	rootCmd.AddCommand(roomsCmd)
}

func printRooms(w io.Writer, rooms []directory.Room) {
	if len(rooms) == 0 {
		fmt.Fprintln(w, "No rooms.")
		return
	}
	for _, r := range rooms {
		fmt.Fprintf(w, "%6d  %s\n", r.ID, r.Name)
	}
}

// resolveRoom accepts a room id or a room name. Names are looked up in the
// cache first, then in a fresh listing.
func resolveRoom(ctx context.Context, arg string) (directory.Room, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if r, ok := findRoom(cachedRooms(), func(r directory.Room) bool { return r.ID == id }); ok {
			return r, nil
		}
		return directory.Room{ID: id}, nil
	}
	byName := func(r directory.Room) bool { return r.Name == arg }
	if r, ok := findRoom(cachedRooms(), byName); ok {
		return r, nil
	}
	rooms, err := controller.Rooms(ctx)
	if err != nil {
		return directory.Room{}, err
	}
	rememberRooms(rooms)
	if r, ok := findRoom(rooms, byName); ok {
		return r, nil
	}
	return directory.Room{}, fmt.Errorf("no room named %q", arg)
}

func findRoom(rooms []directory.Room, match func(directory.Room) bool) (directory.Room, bool) {
	for _, r := range rooms {
		if match(r) {
			return r, true
		}
	}
	return directory.Room{}, false
}

// RoomCompletionFunc completes room names from the last listing.
func RoomCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, r := range cachedRooms() {
		if strings.HasPrefix(r.Name, toComplete) {
			names = append(names, r.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
