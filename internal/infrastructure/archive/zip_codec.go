package archive

import (
	"context"
	"fmt"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/reglet-dev/auditpack/internal/domain/entities"
	"github.com/reglet-dev/auditpack/internal/domain/values"
)

// ZipCodec writes deflate-compressed zip archives.
type ZipCodec struct{}

// NewZipCodec creates a zip codec.
func NewZipCodec() *ZipCodec {
	return &ZipCodec{}
}

// Extension returns "zip".
func (c *ZipCodec) Extension() string {
	return values.ArchiveFormatZip.Extension()
}

// Write creates dest containing every manifest entry under root.
func (c *ZipCodec) Write(ctx context.Context, root string, manifest entities.Manifest, dest string) (err error) {
	//nolint:gosec // G304: dest is derived from the caller's output directory
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create zip file: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(out)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
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
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create zip header for %s: %w", entry, err)
		}
		header.Name = entry
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create zip entry %s: %w", entry, err)
		}
		if err := copyEntry(w, root, entry); err != nil {
			return err
		}
	}

	return nil
}
