package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wonny/quantdiag/internal/infra/database/migrations"
)

// migrateCmd migrate 서브커맨드
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "데이터베이스 스키마 마이그레이션",
	Long: `내장된 SQL 마이그레이션을 DATABASE_URL에 적용합니다.

Examples:
  go run ./cmd/quant migrate up        # 최신 버전까지 적용
  go run ./cmd/quant migrate down      # 한 단계 롤백
  go run ./cmd/quant migrate version   # 현재 버전 확인`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "최신 버전까지 적용",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(r *migrations.Runner) error { return r.Up() })
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "한 단계 롤백",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(r *migrations.Runner) error { return r.Down() })
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "현재 스키마 버전",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(r *migrations.Runner) error { return nil })
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

// withMigrations 실행 후 버전 출력
func withMigrations(fn func(r *migrations.Runner) error) error {
	r, err := migrations.New(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := fn(r); err != nil {
		return err
	}

	v, dirty, err := r.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "schema version: %d (dirty=%t)\n", v, dirty)
	return nil
}
