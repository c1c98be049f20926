package compressor

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTarGzip(t *testing.T) {
	Convey("Given a TarGzip archiver", t, func() {
		archiver := NewTarGzip()
		tempDir := t.TempDir()

		Convey("Archive then Extract", func() {
			sourcePath := filepath.Join(tempDir, "dump.sql")
			content := []byte("CREATE TABLE orders (id INT);\n-- end of dump\n")
			So(os.WriteFile(sourcePath, content, 0644), ShouldBeNil)

			archivePath := filepath.Join(tempDir, "dump.tar.gz")
			err := archiver.Archive(sourcePath, archivePath)

			Convey("It should produce an archive", func() {
				So(err, ShouldBeNil)
				info, err := os.Stat(archivePath)
				So(err, ShouldBeNil)
				So(info.Size(), ShouldBeGreaterThan, 0)
			})

			Convey("Extract should restore the original bytes", func() {
				So(err, ShouldBeNil)

				outDir := filepath.Join(tempDir, "out")
				So(os.MkdirAll(outDir, 0755), ShouldBeNil)
				So(archiver.Extract(archivePath, outDir), ShouldBeNil)

				restored, err := os.ReadFile(filepath.Join(outDir, "dump.sql"))
				So(err, ShouldBeNil)
				So(string(restored), ShouldEqual, string(content))
			})
		})

		Convey("Archiving a missing source fails", func() {
			err := archiver.Archive(filepath.Join(tempDir, "missing.sql"), filepath.Join(tempDir, "x.tar.gz"))

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "failed to open source")
		})

		Convey("Extracting a non-archive fails", func() {
			bogus := filepath.Join(tempDir, "bogus.tar.gz")
			So(os.WriteFile(bogus, []byte("not gzip"), 0644), ShouldBeNil)

			err := archiver.Extract(bogus, tempDir)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "gzip")
		})
	})
}
