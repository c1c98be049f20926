package domain

import (
	"fmt"
	"time"
)

// timestampLayout gives second granularity; collisions between concurrent
// runs of the same database are an accepted non-goal.
const timestampLayout = "2006-01-02_15:04:05"

// BackupArtifact is the local output of one dump: the raw dump file plus the
// tar.gz archive that gets uploaded. Both live in the scratch directory and
// must be removed once the upload attempt finishes, whatever its outcome.
type BackupArtifact struct {
	Filename    string
	RawPath     string
	ArchivePath string
}

// ArchiveFilename builds the object key for one backup:
// backup-<engine>-<YYYY-MM-DD_HH:MM:SS>-<dbname>-<host>.tar.gz
func ArchiveFilename(engine Engine, ts time.Time, database, host string) string {
	return fmt.Sprintf("backup-%s-%s-%s-%s.tar.gz",
		engine, ts.Format(timestampLayout), database, host)
}
