package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rushteam/vidrec/config"
	"github.com/rushteam/vidrec/core"
)

var (
	configPath string
	envFile    string

	v      = viper.New()
	appCfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "vidrec",
	Short: "vidrec - content-based video ranking",
	Long: `vidrec ranks a video catalog for a user by TF-IDF content similarity
to the videos the user interacted with, excluding already watched videos.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		cfg, err := config.LoadApp(v, configPath)
		if err != nil {
			return err
		}
		appCfg = cfg
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to config file (yaml, json, toml)")
	pf.StringVar(&envFile, "env-file", ".env", "Path to .env file, ignored when missing")
	pf.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	pf.String("log-format", "json", "Log format: json or console")
	pf.String("source-kind", "sql", "Data source: sql or redis")
	pf.String("source-driver", "sqlite3", "SQL driver: sqlite3 or postgres")
	pf.String("source-dsn", "vidrec.db", "SQL data source name")

	bindFlag("log.level", "log-level")
	bindFlag("log.format", "log-format")
	bindFlag("source.kind", "source-kind")
	bindFlag("source.driver", "source-driver")
	bindFlag("source.dsn", "source-dsn")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func bindFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// exitCode 按错误码区分退出码：输入错误 2，下游不可用 3，其它 1。
func exitCode(err error) int {
	switch {
	case core.IsInvalidInput(err):
		return 2
	case core.IsUnavailable(err):
		return 3
	default:
		return 1
	}
}
