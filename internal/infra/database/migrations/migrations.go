// Package migrations embeds the data-schema SQL and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var files embed.FS

// Runner 마이그레이션 실행기
type Runner struct {
	m *migrate.Migrate
}

// New DATABASE_URL로 마이그레이션 실행기 생성
func New(databaseURL string) (*Runner, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := Source()
	if err != nil {
		db.Close()
		return nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Runner{m: m}, nil
}

// Source 내장 SQL 파일 소스
func Source() (source.Driver, error) {
	d, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return d, nil
}

// Up 최신 버전까지 적용 (이미 최신이면 nil)
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logVersion("up")
	return nil
}

// Down 한 단계 롤백
func (r *Runner) Down() error {
	if err := r.m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	r.logVersion("down")
	return nil
}

// Version 현재 버전
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (r *Runner) logVersion(direction string) {
	v, dirty, err := r.Version()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read migration version")
		return
	}
	log.Info().Str("direction", direction).Uint("version", v).Bool("dirty", dirty).Msg("Migrations applied")
}

// Close 소스와 DB 연결 종료
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}
