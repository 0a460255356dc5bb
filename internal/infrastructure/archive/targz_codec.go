package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// TarGzCodec writes gzip-compressed tar archives.
type TarGzCodec struct{}

// NewTarGzCodec creates a tar.gz codec.
func NewTarGzCodec() *TarGzCodec {
	return &TarGzCodec{}
}

// Extension returns "tar.gz".
func (c *TarGzCodec) Extension() string {
	return values.ArchiveFormatTarGz.Extension()
}

// Write creates dest containing every manifest entry under root.
func (c *TarGzCodec) Write(ctx context.Context, root string, manifest entities.Manifest, dest string) (err error) {
	//nolint:gosec // G304: dest is derived from the caller's output directory
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	gz := gzip.NewWriter(out)
	defer func() {
		if closeErr := gz.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	tw := tar.NewWriter(gz)
	defer func() {
		if closeErr := tw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for _, entry := range manifest {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := statEntry(root, entry)
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return fmt.Errorf("failed to create tar header for %s: %w", entry, err)
		}
		header.Name = entry
		// ownership is not portable across hosts
		header.Uid, header.Gid = 0, 0
		header.Uname, header.Gname = "", ""

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", entry, err)
		}
		if err := copyEntry(tw, root, entry); err != nil {
			return err
		}
	}

	return nil
}
