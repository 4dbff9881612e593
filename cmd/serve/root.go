package serve

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cmdUtil "github.com/dragonrex/sdash/cmd/util"
	"github.com/dragonrex/sdash/lib/auth"
	"github.com/dragonrex/sdash/lib/config"
	"github.com/dragonrex/sdash/lib/user"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = config.Default()
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the dashboard backend",
		Long:    `Start the dashboard backend with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is SDASH_<flag> (e.g. SDASH_SESSION_TIMEOUT=600)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitEnvConfig)

	// add flags
	cmdUtil.SetupStorageFlags(ServeCmd)

	key := "port"
	ServeCmd.PersistentFlags().Int(key, serveCmdConfig.Port, cmdUtil.WrapString("The port on which the backend will listen"))

	key = "environment"
	ServeCmd.PersistentFlags().String(key, serveCmdConfig.Environment, cmdUtil.WrapString("Deployment environment (development, production)"))

	key = "session-timeout"
	ServeCmd.PersistentFlags().Int(key, serveCmdConfig.SessionTimeoutSec, cmdUtil.WrapString("Session validity window in seconds"))

	key = "max-login-attempts"
	ServeCmd.PersistentFlags().Int(key, serveCmdConfig.MaxLoginAttempts, cmdUtil.WrapString("Failed logins per client address before the address is blocked"))

	key = "password-min-length"
	ServeCmd.PersistentFlags().Int(key, serveCmdConfig.PasswordMinLength, cmdUtil.WrapString("Minimum accepted password length"))

	key = "admin-username"
	ServeCmd.PersistentFlags().String(key, serveCmdConfig.Admin.Username, cmdUtil.WrapString("Username of the static administrative account"))

	key = "admin-password"
	ServeCmd.PersistentFlags().String(key, serveCmdConfig.Admin.Password, cmdUtil.WrapString("Password of the static administrative account"))

	key = "admin-email"
	ServeCmd.PersistentFlags().String(key, serveCmdConfig.Admin.Email, cmdUtil.WrapString("Email of the static administrative account"))

	key = "default-users"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Comma-separated list of static default accounts in the format username=password"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, serveCmdConfig.LogLevel, cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "config"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Path to an optional configuration file (JSON, YAML or TOML); flags and environment variables take precedence"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts it to the application configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	// merge in the optional configuration file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.MergeInConfig(); err != nil {
			return err
		}
	}

	serveCmdConfig.Port = viper.GetInt("port")
	serveCmdConfig.Environment = viper.GetString("environment")
	serveCmdConfig.SessionTimeoutSec = viper.GetInt("session-timeout")
	serveCmdConfig.MaxLoginAttempts = viper.GetInt("max-login-attempts")
	serveCmdConfig.PasswordMinLength = viper.GetInt("password-min-length")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.Storage = cmdUtil.GetStorageConfig()

	serveCmdConfig.Admin.Username = viper.GetString("admin-username")
	serveCmdConfig.Admin.Password = viper.GetString("admin-password")
	serveCmdConfig.Admin.Email = viper.GetString("admin-email")

	// parse default users: a configuration file may carry full account
	// objects, the flag/env form is a compact username=password list
	serveCmdConfig.DefaultUsers = nil
	var accounts []config.Account
	if err := viper.UnmarshalKey("default-users", &accounts); err == nil && len(accounts) > 0 {
		serveCmdConfig.DefaultUsers = accounts
		return nil
	}
	if defaultUsers := viper.GetString("default-users"); defaultUsers != "" {
		for _, entry := range strings.Split(defaultUsers, ",") {
			parts := strings.SplitN(entry, "=", 2)
			if len(parts) != 2 {
				log.WithField("entry", entry).Warn("ignoring malformed default user (expected username=password)")
				continue
			}
			serveCmdConfig.DefaultUsers = append(serveCmdConfig.DefaultUsers, config.Account{
				Username:    strings.TrimSpace(parts[0]),
				Password:    parts[1],
				Role:        "user",
				Permissions: []string{"dashboard_access"},
			})
		}
	}

	return nil
}

// run boots the backend: storage binding, user directory, login gate.
func run(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(serveCmdConfig.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	log.Infof("starting %s v%s%s", serveCmdConfig.Name, serveCmdConfig.Version, serveCmdConfig)

	binding, err := cmdUtil.OpenBinding(serveCmdConfig.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := binding.Disconnect(); err != nil {
			log.WithError(err).Error("failed to disconnect storage backend")
		}
	}()

	directory := user.NewDirectory(binding, serveCmdConfig)
	gate := auth.NewGate(directory, serveCmdConfig)

	// Bound the attempt map with a sliding window of one session timeout.
	pruneStop := make(chan struct{})
	go func() {
		maxAge := time.Duration(serveCmdConfig.SessionTimeoutSec) * time.Second
		ticker := time.NewTicker(maxAge)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gate.Prune(maxAge)
			case <-pruneStop:
				return
			}
		}
	}()
	defer close(pruneStop)

	log.WithFields(log.Fields{
		"backend": binding.Name(),
		"users":   len(directory.Users()),
		"port":    serveCmdConfig.Port,
	}).Info("backend ready")

	// Block until a termination signal arrives.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	log.WithField("signal", received.String()).Info("shutting down")

	return nil
}
