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
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/ponyo877/roomchat/cli/directory"
)

// signinCmd represents the signin command
var signinCmd = &cobra.Command{
	Use:   "signin <username> [password]",
	Short: "Signs in to the chat server.",
	Long: `Signs in with a username and password. The password is read from the
terminal when it is not given. The signed-in user is remembered in the
config file until signout.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		password, err := passwordArg(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading password: %v\n", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		id, err := controller.SignIn(ctx, args[0], password)
		if err != nil {
			if errors.Is(err, directory.ErrUnauthorized) {
				fmt.Fprintln(os.Stderr, "Invalid username or password.")
				return
			}
			fmt.Fprintf(os.Stderr, "Error signing in: %v\n", err)
			return
		}

		viper.Set(userIDKey, id.UserID)
		viper.Set(usernameKey, id.Username)
		if err := saveConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing config file:", err)
		}
		fmt.Printf("Signed in as %s (id %d)\n", id.Username, id.UserID)
	},
}

func init() {
	rootCmd.AddCommand(signinCmd)
}

// passwordArg returns args[1], or prompts for it without echo.
func passwordArg(args []string) (string, error) {
	if len(args) > 1 {
		return args[1], nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required")
	}
	fmt.Print("Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}
