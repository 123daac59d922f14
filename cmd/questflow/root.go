package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/questflow/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "questflow",
	Short: "questflow runs branching questionnaires",
	Long: `questflow walks a questionnaire flow: a graph of questions whose edges are
guarded by conditions over earlier answers. It serves the flow over HTTP and MCP,
runs it interactively, and checks, visualizes and summarizes answer sets.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.StringP("flow", "f", "", "Flow document (YAML or JSON) [$"+cli.EnvFlow+"]")
	flags.String("config", cli.DefaultConfigFile, "Config file")
	flags.String("store", "", "Session store: memory, file or redis [$"+cli.EnvStore+"]")
	flags.String("session-dir", "", "Directory of the file session store [$"+cli.EnvSessionDir+"]")
	flags.String("redis-addr", "", "Redis address for the redis session store [$"+cli.EnvRedisAddr+"]")
	flags.String("redis-password", "", "Redis password [$"+cli.EnvRedisPassword+"]")
	flags.Int("redis-db", 0, "Redis database [$"+cli.EnvRedisDB+"]")
	flags.Duration("session-ttl", 0, "Expiry of redis sessions, 0 keeps them [$"+cli.EnvSessionTTL+"]")
	flags.String("encryption-key", "", "Base64 AES-256 key encrypting stored sessions [$"+cli.EnvEncryptionKey+"]")
	flags.Bool("mask-pii", false, "Mask free-text answers before they are stored [$"+cli.EnvMaskPII+"]")
	flags.String("log-level", "", "Log level: debug, info, warn, error [$"+cli.EnvLogLevel+"]")
}

// loadOptions resolves flags, then environment, then the config file.
// A positional argument names the flow when --flow is not given.
func loadOptions(cmd *cobra.Command, args []string) (cli.Options, error) {
	flags := cmd.Flags()

	var opts cli.Options
	opts.FlowPath, _ = flags.GetString("flow")
	opts.Store, _ = flags.GetString("store")
	opts.SessionDir, _ = flags.GetString("session-dir")
	opts.RedisAddr, _ = flags.GetString("redis-addr")
	opts.RedisPassword, _ = flags.GetString("redis-password")
	opts.EncryptionKey, _ = flags.GetString("encryption-key")
	opts.LogLevel, _ = flags.GetString("log-level")

	// Typed flags only count when given, so env and file can still set them.
	if flags.Changed("redis-db") {
		db, _ := flags.GetInt("redis-db")
		opts.RedisDB = &db
	}
	if flags.Changed("session-ttl") {
		ttl, _ := flags.GetDuration("session-ttl")
		opts.SessionTTL = &ttl
	}
	if flags.Changed("mask-pii") {
		mask, _ := flags.GetBool("mask-pii")
		opts.MaskPII = &mask
	}

	if opts.FlowPath == "" && len(args) > 0 {
		opts.FlowPath = args[0]
	}

	if err := opts.ApplyEnv(os.LookupEnv); err != nil {
		return opts, err
	}

	config, _ := flags.GetString("config")
	if err := opts.ApplyFile(config, !flags.Changed("config")); err != nil {
		return opts, err
	}
	return opts, nil
}
