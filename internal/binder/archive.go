package binder

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/dorucioclea/foundry/internal/domain"
)

// archiveDir writes a zstd-compressed tarball of every regular file
// under dir to dest. Entry names are relative to dir.
func archiveDir(dir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return domain.NewWriteError(dest, err)
	}
	defer out.Close()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		tw.Close()
		zw.Close()
		return domain.NewWriteError(dest, err)
	}

	if err := tw.Close(); err != nil {
		zw.Close()
		return domain.NewWriteError(dest, err)
	}
	if err := zw.Close(); err != nil {
		return domain.NewWriteError(dest, err)
	}
	return nil
}
