package user

import (
	"fmt"

	cmdUtil "github.com/dragonrex/sdash/cmd/util"
	"github.com/dragonrex/sdash/lib/config"
	"github.com/dragonrex/sdash/lib/db"
	"github.com/dragonrex/sdash/lib/user"
	"github.com/spf13/cobra"
)

var (
	binding   *db.Binding
	directory *user.Directory

	// UserCommands represents the user administration command group
	UserCommands = &cobra.Command{
		Use:                "user",
		Short:              "Administer the persisted user directory",
		PersistentPreRunE:  setupDirectory,
		PersistentPostRunE: teardownDirectory,
	}

	addCmd = &cobra.Command{
		Use:   "add [username] [password]",
		Short: "Add a user with the default role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !directory.Add(args[0], args[1]) {
				return fmt.Errorf("user %s was not added", args[0])
			}
			fmt.Println("user added")
			return nil
		},
	}

	addDetailsCmd = &cobra.Command{
		Use:   "add-details [username] [password] [email] [role]",
		Short: "Add a user with email and role",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !directory.AddWithDetails(args[0], args[1], args[2], args[3]) {
				return fmt.Errorf("user %s was not added", args[0])
			}
			fmt.Println("user added")
			return nil
		},
	}

	removeCmd = &cobra.Command{
		Use:   "remove [username]",
		Short: "Remove a user by username",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !directory.Remove(args[0]) {
				return fmt.Errorf("user %s was not removed", args[0])
			}
			fmt.Println("user removed")
			return nil
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List all persisted usernames",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users := directory.Users()
			if len(users) == 0 {
				fmt.Println("no users")
				return nil
			}
			for _, u := range users {
				fmt.Println(u.Username)
			}
			return nil
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(cmdUtil.InitEnvConfig)

	// Add the storage flags shared with serve
	cmdUtil.SetupStorageFlags(UserCommands)

	// Add subcommands
	UserCommands.AddCommand(addCmd)
	UserCommands.AddCommand(addDetailsCmd)
	UserCommands.AddCommand(removeCmd)
	UserCommands.AddCommand(listCmd)
}

// setupDirectory opens the store binding and the user directory over it
func setupDirectory(cmd *cobra.Command, _ []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// An empty store gets provisioned and seeded exactly like on the
	// server's first boot.
	cfg := config.Default()
	cfg.Storage = cmdUtil.GetStorageConfig()

	var err error
	binding, err = cmdUtil.OpenBinding(cfg.Storage)
	if err != nil {
		return err
	}

	directory = user.NewDirectory(binding, cfg)
	return nil
}

// teardownDirectory releases the store binding
func teardownDirectory(_ *cobra.Command, _ []string) error {
	if binding == nil {
		return nil
	}
	return binding.Disconnect()
}
