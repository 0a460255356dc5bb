// Package archive implements archive codecs for packaged profiles.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reglet-dev/auditpack/internal/application/ports"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// Codecs returns one codec per supported archive format.
func Codecs() map[values.ArchiveFormat]ports.ArchiveCodec {
	return map[values.ArchiveFormat]ports.ArchiveCodec{
		values.ArchiveFormatZip:   NewZipCodec(),
		values.ArchiveFormatTarGz: NewTarGzCodec(),
	}
}

// copyEntry streams one manifest entry into w.
func copyEntry(w io.Writer, root, entry string) error {
	//nolint:gosec // G304: entry comes from a manifest built by walking root
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(entry)))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", entry, err)
	}
	defer func() {
		_ = f.Close() // Best-effort cleanup
	}()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", entry, err)
	}
	return nil
}

func statEntry(root, entry string) (os.FileInfo, error) {
	info, err := os.Stat(filepath.Join(root, filepath.FromSlash(entry)))
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", entry, err)
	}
	return info, nil
}
