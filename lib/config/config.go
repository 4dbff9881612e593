package config

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Account configuration structs
// --------------------------------------------------------------------------

// Account describes a statically configured login account (the
// administrative account or one of the default accounts).
type Account struct {
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	Email       string   `mapstructure:"email"`
	Role        string   `mapstructure:"role"`
	Permissions []string `mapstructure:"permissions"`
}

// --------------------------------------------------------------------------
// Storage configuration struct
// --------------------------------------------------------------------------

// Storage holds the backend selection and connection parameters.
type Storage struct {
	// Kind is one of SQLITE, MYSQL, POSTGRESQL, MARIADB, MONGODB
	// (default SQLITE).
	Kind string
	// URL is the backend address. For SQLite it is the database file
	// path, for the other engines a driver connection URL.
	URL string
	// Database is the logical database name (document store only).
	Database string
	// Username/Password are optional backend credentials.
	Username string
	Password string

	// Pool tuning
	PoolMax           int
	PoolMinIdle       int
	ConnectTimeoutSec int
}

// --------------------------------------------------------------------------
// Application configuration struct
// --------------------------------------------------------------------------

// App holds all configuration parameters of the dashboard backend.
type App struct {
	// Application settings
	Name        string
	Version     string
	Port        int
	Environment string

	// Security settings
	SessionTimeoutSec int
	MaxLoginAttempts  int
	PasswordMinLength int

	// Accounts
	Admin        Account
	DefaultUsers []Account

	// Storage selection
	Storage Storage

	// Logging configuration
	LogLevel string
}

// Default returns the configuration the dashboard ships with.
func Default() *App {
	return &App{
		Name:        "Server Dashboard",
		Version:     "1.0.0",
		Port:        7070,
		Environment: "development",

		SessionTimeoutSec: 3600,
		MaxLoginAttempts:  5,
		PasswordMinLength: 4,

		Admin: Account{
			Username:    "admin",
			Password:    "admin123",
			Email:       "admin@serverdashboard.local",
			Role:        "administrator",
			Permissions: []string{"user_management", "system_configuration"},
		},

		Storage: Storage{
			Kind:              "SQLITE",
			URL:               "data/dashboard.db",
			Database:          "dashboard",
			PoolMax:           8,
			PoolMinIdle:       1,
			ConnectTimeoutSec: 10,
		},

		LogLevel: "info",
	}
}

// IsDevelopment reports whether the configured environment is development.
func (c *App) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// IsProduction reports whether the configured environment is production.
func (c *App) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// String returns a formatted string representation of the configuration.
// Passwords are masked.
func (c *App) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// Application settings
	addSection("Application")
	addField("Name", c.Name)
	addField("Version", c.Version)
	addField("Port", strconv.Itoa(c.Port))
	addField("Environment", c.Environment)

	// Security settings
	addSection("Security")
	addField("Session Timeout", fmt.Sprintf("%d sec", c.SessionTimeoutSec))
	addField("Max Login Attempts", strconv.Itoa(c.MaxLoginAttempts))
	addField("Password Min Length", strconv.Itoa(c.PasswordMinLength))

	// Accounts
	addSection("Accounts")
	addField("Admin", fmt.Sprintf("%s (%s)", c.Admin.Username, c.Admin.Role))
	for i, user := range c.DefaultUsers {
		addField(fmt.Sprintf("Default User %d", i), fmt.Sprintf("%s (%s)", user.Username, user.Role))
	}

	// Storage
	addSection("Storage")
	addField("Kind", c.Storage.Kind)
	addField("URL", c.Storage.URL)
	addField("Database", c.Storage.Database)
	if c.Storage.Username != "" {
		addField("Username", c.Storage.Username)
		addField("Password", "****")
	}
	addField("Pool Max", strconv.Itoa(c.Storage.PoolMax))
	addField("Pool Min Idle", strconv.Itoa(c.Storage.PoolMinIdle))
	addField("Connect Timeout", fmt.Sprintf("%d sec", c.Storage.ConnectTimeoutSec))

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
