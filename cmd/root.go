package cmd

import (
	"github.com/gonz247/commentgenerator/cmd/generate"
	"github.com/gonz247/commentgenerator/cmd/migrate"
	"github.com/gonz247/commentgenerator/cmd/serve"
	"github.com/gonz247/commentgenerator/cmd/transfer"
	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *config.Context) *cobra.Command {
	v := viper.GetViper()

	rootCmd := &cobra.Command{
		Use:           "commentgen",
		Short:         "Causality assessment comment generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, ctx, v)

	rootCmd.AddCommand(
		serve.Command(ctx),
		migrate.Command(ctx),
		migrate.SeedCommand(ctx),
		transfer.ExportCommand(ctx),
		transfer.ImportCommand(ctx),
		generate.Command(ctx),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, ctx.EnvFile)
		if err != nil {
			return err
		}
		ctx.Config = loaded
		logger.Setup(loaded.LogLevel, loaded.LogJSON)
		return nil
	}

	return rootCmd
}

// setupFlags defines flags shared by every subcommand. Each one overrides
// the matching configuration key when set.
func setupFlags(rootCmd *cobra.Command, ctx *config.Context, v *viper.Viper) {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.EnvFile, "env-file", ".env", "Path to the env file to load")
	flags.String("db", "", "SQLite database path")
	flags.String("company", "", "Company name used for license partner cases")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("log-json", false, "Emit JSON logs")

	bindings := map[string]string{
		"db":        "DATABASE_DB_PATH",
		"company":   "COMPANY_NAME",
		"log-level": "LOG_LEVEL",
		"log-json":  "LOG_JSON",
	}
	for flag, key := range bindings {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}
