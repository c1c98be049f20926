package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fathoor/custodia/internal/adapter/database"
	"github.com/fathoor/custodia/internal/domain"
)

// Dispatch selects a dump strategy for a target. The orchestrator takes it
// as a dependency so tests can substitute fakes for the vendor CLI tools.
type Dispatch func(domain.DatabaseTarget) (domain.Dumper, error)

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
}

type Backup struct {
	dispatch   Dispatch
	archiver   domain.Archiver
	storage    domain.ObjectStorage
	logger     Logger
	scratchDir string
	now        func() time.Time
}

func NewBackup(
	storage domain.ObjectStorage,
	archiver domain.Archiver,
	logger Logger,
	scratchDir string,
) *Backup {
	return &Backup{
		dispatch:   database.ForTarget,
		archiver:   archiver,
		storage:    storage,
		logger:     logger,
		scratchDir: scratchDir,
		now:        time.Now,
	}
}

// Execute backs up every target in configured order. One target's failure
// never stops the rest; each outcome lands in the returned report.
func (uc *Backup) Execute(ctx context.Context, targets []domain.DatabaseTarget) domain.RunReport {
	if len(targets) == 0 {
		uc.logger.Infof("No databases configured, nothing to back up")
		return nil
	}

	report := make(domain.RunReport, 0, len(targets))
	for _, target := range targets {
		start := time.Now()
		result := domain.TargetResult{Target: target}

		artifact, err := uc.backupTarget(ctx, target)
		if err != nil {
			uc.logger.Errorf("[%s] Backup failed: %v", target, err)
			result.Err = err
		} else {
			result.Object = artifact.Filename
			uc.logger.Infof("[%s] Backup completed in %s: %s",
				target, time.Since(start).Round(time.Second), artifact.Filename)
		}
		result.Duration = time.Since(start)

		report = append(report, result)
	}

	uc.logger.Infof("Backup run finished: %d succeeded, %d failed",
		report.Succeeded(), report.Failed())
	return report
}

// backupTarget runs one dump-archive-upload cycle. The scratch files are
// removed on every path out, success or failure.
func (uc *Backup) backupTarget(ctx context.Context, target domain.DatabaseTarget) (*domain.BackupArtifact, error) {
	dumper, err := uc.dispatch(target)
	if err != nil {
		return nil, err
	}

	if version, err := dumper.Version(ctx); err != nil {
		uc.logger.Warnf("[%s] Version probe failed: %v", target, err)
	} else {
		uc.logger.Debugf("[%s] Dump tool: %s", target, version)
	}

	filename := domain.ArchiveFilename(target.Engine, uc.now(), target.Database, target.Host)
	artifact := &domain.BackupArtifact{
		Filename:    filename,
		RawPath:     filepath.Join(uc.scratchDir, strings.TrimSuffix(filename, ".tar.gz")+".dump"),
		ArchivePath: filepath.Join(uc.scratchDir, filename),
	}
	defer uc.cleanup(artifact)

	uc.logger.Infof("[%s] Dumping to %s", target, artifact.RawPath)
	if err := dumper.Dump(ctx, artifact.RawPath); err != nil {
		return nil, err
	}

	if err := uc.archiver.Archive(artifact.RawPath, artifact.ArchivePath); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCompression, err)
	}

	if info, err := os.Stat(artifact.ArchivePath); err == nil {
		uc.logger.Infof("[%s] Archive ready, size: %.2f MB",
			target, float64(info.Size())/(1024*1024))
	}

	uc.logger.Infof("[%s] Uploading %s", target, filename)
	if err := uc.storage.Upload(ctx, artifact.ArchivePath, filename); err != nil {
		return nil, err
	}

	return artifact, nil
}

func (uc *Backup) cleanup(artifact *domain.BackupArtifact) {
	for _, path := range []string{artifact.RawPath, artifact.ArchivePath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			uc.logger.Warnf("Failed to remove scratch file %s: %v", path, err)
		}
	}
}
