package database

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/fathoor/custodia/internal/domain"
)

type MongoDBDumper struct {
	target domain.DatabaseTarget
}

func NewMongoDB(target domain.DatabaseTarget) *MongoDBDumper {
	return &MongoDBDumper{target: target}
}

func (m *MongoDBDumper) Engine() domain.Engine {
	return domain.EngineMongoDB
}

// uri rebuilds a canonical mongodb:// URI from the parsed target, so scheme
// aliases accepted at parse time never reach mongodump.
func (m *MongoDBDumper) uri() string {
	u := &url.URL{
		Scheme: "mongodb",
		Host:   fmt.Sprintf("%s:%d", m.target.Host, m.target.Port),
		Path:   "/" + m.target.Database,
	}
	if m.target.User != "" {
		u.User = url.UserPassword(m.target.User, m.target.Password)
	}
	return u.String()
}

func (m *MongoDBDumper) dumpArgs(outputPath string) []string {
	return []string{
		"--uri=" + m.uri(),
		"--archive=" + outputPath,
	}
}

// Dump runs mongodump with the connection URI as a single argument.
func (m *MongoDBDumper) Dump(ctx context.Context, outputPath string) error {
	cmd := exec.CommandContext(ctx, "mongodump", m.dumpArgs(outputPath)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: mongodump: %v, output: %s", domain.ErrDumpCommand, err, string(output))
	}

	return nil
}

func (m *MongoDBDumper) Version(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, "mongodump", "--version").Output()
	if err != nil {
		return "", fmt.Errorf("mongodump version probe: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
