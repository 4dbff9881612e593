package cmd

import (
	"fmt"
	"os"

	"github.com/dragonrex/sdash/cmd/serve"
	"github.com/dragonrex/sdash/cmd/user"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "sdash",
		Short: "server dashboard backend",
		Long: fmt.Sprintf(`sdash (v%s)

The server dashboard backend: a user directory and login gate over an
interchangeable storage backend (SQLite, MySQL, PostgreSQL, MariaDB or
MongoDB).`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of sdash",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sdash v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(user.UserCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
