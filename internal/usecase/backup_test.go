package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fathoor/custodia/internal/adapter/compressor"
	"github.com/fathoor/custodia/internal/domain"
)

type testLogger struct {
	entries []string
}

func (l *testLogger) logf(level, template string, args ...interface{}) {
	l.entries = append(l.entries, level+": "+fmt.Sprintf(template, args...))
}

func (l *testLogger) Debugf(template string, args ...interface{}) { l.logf("DEBUG", template, args...) }
func (l *testLogger) Infof(template string, args ...interface{})  { l.logf("INFO", template, args...) }
func (l *testLogger) Warnf(template string, args ...interface{})  { l.logf("WARN", template, args...) }
func (l *testLogger) Errorf(template string, args ...interface{}) { l.logf("ERROR", template, args...) }

type fakeDumper struct {
	engine  domain.Engine
	dumpErr error
	dumps   int
}

func (f *fakeDumper) Engine() domain.Engine { return f.engine }

func (f *fakeDumper) Dump(ctx context.Context, outputPath string) error {
	f.dumps++
	if f.dumpErr != nil {
		return f.dumpErr
	}
	return os.WriteFile(outputPath, []byte("-- dump data\n"), 0644)
}

func (f *fakeDumper) Version(ctx context.Context) (string, error) {
	return "fakedump 1.0", nil
}

type fakeObjectStorage struct {
	uploads   []string
	uploadErr error

	objects   []domain.StoredObject
	listErr   error
	listCalls int

	deleted   [][]string
	deleteErr error
}

func (f *fakeObjectStorage) Upload(ctx context.Context, localPath string, key string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if _, err := os.Stat(localPath); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeObjectStorage) List(ctx context.Context) ([]domain.StoredObject, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.objects, nil
}

func (f *fakeObjectStorage) DeleteBatch(ctx context.Context, keys []string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, keys)
	return nil
}

func scratchFileCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	return len(entries)
}

func TestBackupExecute(t *testing.T) {
	Convey("Given a backup orchestrator", t, func() {
		scratch := t.TempDir()
		store := &fakeObjectStorage{}
		log := &testLogger{}

		uc := NewBackup(store, compressor.NewTarGzip(), log, scratch)
		uc.now = func() time.Time {
			return time.Date(2026, time.February, 10, 3, 0, 0, 0, time.UTC)
		}

		pg := mustParse(t, "postgresql://u:p@h:5432/db1")
		mysql := mustParse(t, "mysql://u:p@db2host:3306/db2")

		Convey("When backing up one postgresql target", func() {
			dumper := &fakeDumper{engine: domain.EnginePostgreSQL}
			uc.dispatch = func(domain.DatabaseTarget) (domain.Dumper, error) { return dumper, nil }

			report := uc.Execute(context.Background(), []domain.DatabaseTarget{pg})

			Convey("It should upload one correctly named archive", func() {
				So(len(report), ShouldEqual, 1)
				So(report[0].Err, ShouldBeNil)
				So(report[0].Object, ShouldEqual, "backup-postgresql-2026-02-10_03:00:00-db1-h.tar.gz")
				So(store.uploads, ShouldResemble, []string{"backup-postgresql-2026-02-10_03:00:00-db1-h.tar.gz"})
			})

			Convey("It should remove both scratch files", func() {
				So(scratchFileCount(t, scratch), ShouldEqual, 0)
			})
		})

		Convey("When upload fails", func() {
			dumper := &fakeDumper{engine: domain.EnginePostgreSQL}
			uc.dispatch = func(domain.DatabaseTarget) (domain.Dumper, error) { return dumper, nil }
			store.uploadErr = fmt.Errorf("%w: bucket gone", domain.ErrUpload)

			report := uc.Execute(context.Background(), []domain.DatabaseTarget{pg})

			Convey("The failure should land in the report", func() {
				So(len(report), ShouldEqual, 1)
				So(errors.Is(report[0].Err, domain.ErrUpload), ShouldBeTrue)
			})

			Convey("Cleanup should still run", func() {
				So(scratchFileCount(t, scratch), ShouldEqual, 0)
			})
		})

		Convey("When the first of two targets fails", func() {
			good := &fakeDumper{engine: domain.EngineMySQL}
			uc.dispatch = func(target domain.DatabaseTarget) (domain.Dumper, error) {
				if target.Engine == domain.EnginePostgreSQL {
					return &fakeDumper{
						engine:  domain.EnginePostgreSQL,
						dumpErr: fmt.Errorf("%w: exit status 1", domain.ErrDumpCommand),
					}, nil
				}
				return good, nil
			}

			report := uc.Execute(context.Background(), []domain.DatabaseTarget{pg, mysql})

			Convey("The second target should still be backed up", func() {
				So(len(report), ShouldEqual, 2)
				So(errors.Is(report[0].Err, domain.ErrDumpCommand), ShouldBeTrue)
				So(report[1].Err, ShouldBeNil)
				So(good.dumps, ShouldEqual, 1)
				So(store.uploads, ShouldResemble, []string{"backup-mysql-2026-02-10_03:00:00-db2-db2host.tar.gz"})
			})

			Convey("No scratch files should survive", func() {
				So(scratchFileCount(t, scratch), ShouldEqual, 0)
			})
		})

		Convey("When a target's engine is unsupported", func() {
			report := uc.Execute(context.Background(), []domain.DatabaseTarget{{Engine: "oracle", Database: "legacy", Host: "h"}})

			Convey("Dispatch should fail without uploading anything", func() {
				So(len(report), ShouldEqual, 1)
				So(errors.Is(report[0].Err, domain.ErrUnsupportedEngine), ShouldBeTrue)
				So(len(store.uploads), ShouldEqual, 0)
			})
		})

		Convey("When no targets are configured", func() {
			report := uc.Execute(context.Background(), nil)

			Convey("It should log the no-op and touch nothing", func() {
				So(report, ShouldBeNil)
				So(len(store.uploads), ShouldEqual, 0)
				So(len(log.entries), ShouldEqual, 1)
				So(log.entries[0], ShouldContainSubstring, "nothing to back up")
			})
		})
	})
}

func mustParse(t *testing.T, uri string) domain.DatabaseTarget {
	t.Helper()
	target, err := domain.ParseTarget(uri)
	if err != nil {
		t.Fatalf("parse %s: %v", uri, err)
	}
	return target
}
