package database

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fathoor/custodia/internal/domain"
)

type MySQLDumper struct {
	target domain.DatabaseTarget
}

func NewMySQL(target domain.DatabaseTarget) *MySQLDumper {
	return &MySQLDumper{target: target}
}

func (m *MySQLDumper) Engine() domain.Engine {
	return domain.EngineMySQL
}

func (m *MySQLDumper) dumpArgs(outputPath string) []string {
	return []string{
		fmt.Sprintf("--host=%s", m.target.Host),
		fmt.Sprintf("--port=%d", m.target.Port),
		fmt.Sprintf("--user=%s", m.target.User),
		"--single-transaction",
		"--quick",
		"--routines",
		"--triggers",
		fmt.Sprintf("--result-file=%s", outputPath),
		m.target.Database,
	}
}

// Dump runs mysqldump. The password travels via MYSQL_PWD, never argv.
func (m *MySQLDumper) Dump(ctx context.Context, outputPath string) error {
	cmd := exec.CommandContext(ctx, "mysqldump", m.dumpArgs(outputPath)...)
	cmd.Env = append(os.Environ(), "MYSQL_PWD="+m.target.Password)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: mysqldump: %v, output: %s", domain.ErrDumpCommand, err, string(output))
	}

	return nil
}

func (m *MySQLDumper) Version(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, "mysqldump", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("mysqldump version probe: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
