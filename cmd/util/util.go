package util

import (
	"strings"
	"time"

	"github.com/dragonrex/sdash/lib/config"
	"github.com/dragonrex/sdash/lib/db"
	"github.com/dragonrex/sdash/lib/db/engines"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitEnvConfig initializes configuration from environment variables
func InitEnvConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("sdash")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// SetupStorageFlags adds the storage backend flags shared by all commands
// that open a store binding.
func SetupStorageFlags(cmd *cobra.Command) {
	defaults := config.Default()

	key := "db-kind"
	cmd.PersistentFlags().String(key, defaults.Storage.Kind, WrapString("Storage backend kind (SQLITE, MYSQL, POSTGRESQL, MARIADB, MONGODB). Unknown values select SQLITE"))

	key = "db-url"
	cmd.PersistentFlags().String(key, defaults.Storage.URL, WrapString("Backend address. For SQLite the database file path, for the other engines a driver connection URL"))

	key = "db-database"
	cmd.PersistentFlags().String(key, defaults.Storage.Database, WrapString("Logical database name (document store only)"))

	key = "db-username"
	cmd.PersistentFlags().String(key, "", WrapString("Backend username (optional)"))

	key = "db-password"
	cmd.PersistentFlags().String(key, "", WrapString("Backend password (optional)"))

	key = "db-pool-max"
	cmd.PersistentFlags().Int(key, defaults.Storage.PoolMax, WrapString("Maximum open connections in the pool"))

	key = "db-pool-min-idle"
	cmd.PersistentFlags().Int(key, defaults.Storage.PoolMinIdle, WrapString("Idle connections kept in the pool"))

	key = "db-connect-timeout"
	cmd.PersistentFlags().Int(key, defaults.Storage.ConnectTimeoutSec, WrapString("Connect probe timeout in seconds"))

	key = "db-fallback-path"
	cmd.PersistentFlags().String(key, defaults.Storage.URL, WrapString("SQLite file path used when the document store is unreachable"))
}

// GetStorageConfig reads the storage configuration from viper.
func GetStorageConfig() config.Storage {
	return config.Storage{
		Kind:              viper.GetString("db-kind"),
		URL:               viper.GetString("db-url"),
		Database:          viper.GetString("db-database"),
		Username:          viper.GetString("db-username"),
		Password:          viper.GetString("db-password"),
		PoolMax:           viper.GetInt("db-pool-max"),
		PoolMinIdle:       viper.GetInt("db-pool-min-idle"),
		ConnectTimeoutSec: viper.GetInt("db-connect-timeout"),
	}
}

// OpenBinding builds the connection handle from the storage configuration
// and opens the store binding for the configured backend.
func OpenBinding(storage config.Storage) (*db.Binding, error) {
	handle := db.NewHandle(storage.URL).
		WithCredentials(storage.Username, storage.Password).
		WithPool(db.PoolConfig{
			MaxSize:        storage.PoolMax,
			MinIdle:        storage.PoolMinIdle,
			ConnectTimeout: time.Duration(storage.ConnectTimeoutSec) * time.Second,
		})

	return engines.Open(
		db.ParseKind(storage.Kind),
		handle,
		storage.Database,
		viper.GetString("db-fallback-path"),
	)
}
