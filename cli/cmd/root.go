/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ponyo877/roomchat/cli/app"
	"github.com/ponyo877/roomchat/cli/directory"
	"github.com/ponyo877/roomchat/cli/session"
)

var (
	cfgFile     string
	interactive bool
	controller  *app.Controller
	console     *consoleDisplay
)

const (
	serverKey   = "server"
	wsServerKey = "ws_server"
	logLevelKey = "log_level"
	userIDKey   = "user_id"
	usernameKey = "username"

	defaultServer  = "http://127.0.0.1:8000"
	requestTimeout = 10 * time.Second
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roomchat",
	Short: "A terminal client for roomchat servers.",
	Long: `roomchat signs you in to a chat server, lists and manages rooms, and
relays messages while you are inside one room at a time.

Run without a command to enter the interactive shell, or run a single
command such as "roomchat rooms".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if controller != nil {
			return nil
		}
		return setup()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// set here: the shell runs commands through rootCmd
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if interactive {
			return
		}
		runREPL()
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.roomchat.yaml)")
	rootCmd.PersistentFlags().String("server", defaultServer, "Base URL of the chat server")
	rootCmd.PersistentFlags().String("ws-server", "", "Base URL of the real-time endpoint (default derived from --server)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	viper.BindPFlag(serverKey, rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag(wsServerKey, rootCmd.PersistentFlags().Lookup("ws-server"))
	viper.BindPFlag(logLevelKey, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.SetDefault(serverKey, defaultServer)
	viper.SetDefault(logLevelKey, "warn")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// $HOME/.roomchat.yaml
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".roomchat")
	}

	viper.SetEnvPrefix("roomchat")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}

// setup builds the controller once; in the interactive shell it outlives
// individual commands.
func setup() error {
	level, err := zerolog.ParseLevel(viper.GetString(logLevelKey))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	server := viper.GetString(serverKey)
	wsServer := viper.GetString(wsServerKey)
	if wsServer == "" {
		if wsServer, err = websocketBase(server); err != nil {
			return err
		}
	}

	dir := directory.NewClient(server,
		directory.WithLogger(log.Logger))
	sessions := session.NewManager(
		session.WebsocketDialer{Dialer: websocket.DefaultDialer, WriteTimeout: requestTimeout},
		session.PathTarget(wsServer),
		session.WithLogger(log.Logger),
	)
	console = newConsoleDisplay(os.Stdout, os.Stderr)

	opts := []app.Option{app.WithLogger(log.Logger)}
	if id := viper.GetInt64(userIDKey); id != 0 {
		opts = append(opts, app.WithIdentity(app.Identity{UserID: id, Username: viper.GetString(usernameKey)}))
	}
	controller = app.NewController(dir, sessions, console, opts...)
	log.Debug().Str("module", "cmd").Str("server", server).Str("ws_server", wsServer).Msg("ready")
	return nil
}

func shutdown() {
	if controller == nil {
		return
	}
	if err := controller.LeaveRoom(); err != nil {
		log.Warn().Err(err).Str("module", "cmd").Msg("leave on exit")
	}
}

// websocketBase maps an http(s) base URL to its ws(s) counterpart.
func websocketBase(server string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("server url %q: %w", server, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("server url %q: unsupported scheme %q", server, u.Scheme)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// saveConfig writes the current settings, creating the config file on first use.
func saveConfig() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || !errors.As(err, &notFound) {
		return err
	}
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, ".roomchat.yaml")
	}
	return viper.WriteConfigAs(path)
}
