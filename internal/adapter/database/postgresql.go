package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fathoor/custodia/internal/domain"
)

type PostgreSQLDumper struct {
	target domain.DatabaseTarget
}

func NewPostgreSQL(target domain.DatabaseTarget) *PostgreSQLDumper {
	return &PostgreSQLDumper{target: target}
}

func (p *PostgreSQLDumper) Engine() domain.Engine {
	return domain.EnginePostgreSQL
}

func (p *PostgreSQLDumper) dumpArgs(outputPath string) []string {
	return []string{
		fmt.Sprintf("--host=%s", p.target.Host),
		fmt.Sprintf("--port=%d", p.target.Port),
		fmt.Sprintf("--username=%s", p.target.User),
		"--format=plain",
		"--no-owner",
		fmt.Sprintf("--file=%s", outputPath),
		p.target.Database,
	}
}

// Dump runs pg_dump. The password travels via PGPASSWORD, never argv.
func (p *PostgreSQLDumper) Dump(ctx context.Context, outputPath string) error {
	cmd := exec.CommandContext(ctx, "pg_dump", p.dumpArgs(outputPath)...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+p.target.Password)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: pg_dump: %v, output: %s", domain.ErrDumpCommand, err, string(output))
	}

	return nil
}

func (p *PostgreSQLDumper) Version(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, "pg_dump", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("pg_dump version probe: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
