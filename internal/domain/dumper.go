package domain

import "context"

// Dumper is one engine's dump strategy. Dump writes the raw dump to
// outputPath; Version probes the installed dump tool and is best-effort.
type Dumper interface {
	Engine() Engine
	Dump(ctx context.Context, outputPath string) error
	Version(ctx context.Context) (string, error)
}

// Archiver wraps a raw dump file into a compressed archive.
type Archiver interface {
	Archive(sourcePath, destPath string) error
	Extract(sourcePath, destDir string) error
}
