// Package cmd - quant CLI commands
package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wonny/quantdiag/internal/pkg/config"
	"github.com/wonny/quantdiag/internal/pkg/logger"
)

var (
	// 공통 플래그
	cfgFile    string
	verbose    bool
	jsonOutput bool

	// initConfig 이후 사용
	cfg *config.Config
)

// rootCmd 루트 커맨드
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Quant diagnosis & signal engine - CLI",
	Long: `Quant diagnosis & signal engine - CLI

Usage:
    go run ./cmd/quant [command]

Commands:
    migrate     up/down/version       - Database schema
    collect     all/breadth/stock     - End-of-day crawl (Naver Finance)
    indicators  <code>                - Technical indicators
    diagnose    <code>                - Overall stock diagnosis
    timing                            - Market timing (ADR)
    screen      magic/peg/turnaround  - Fundamental screeners
    squeeze     <code> / scan         - Short squeeze scoring
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute 루트 커맨드 실행
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(indicatorsCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(timingCmd)
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(squeezeCmd)
}

// initConfig reads in config file and ENV variables if set
func initConfig() error {
	if cfgFile != "" {
		if err := godotenv.Load(cfgFile); err != nil {
			return fmt.Errorf("load %s: %w", cfgFile, err)
		}
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	// CLI는 표 출력이 우선, 로그는 경고 이상만
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.Init(logger.Config{
		Level:          level,
		Format:         "pretty",
		ServiceName:    "quant-cli",
		ServiceVersion: "1.0.0",
	})
}
