package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	ErrEmptyArchive     = errors.New("archive contains no files")
	ErrAmbiguousArchive = errors.New("archive contains more than one file")
)

// ExtractPrimaryFile opens the zip archive held in b and returns a reader
// over the decompressed bytes of its single contained file. Archives are
// expected to hold exactly one file; anything else fails rather than
// guessing which entry was meant.
func ExtractPrimaryFile(b []byte) (io.ReadCloser, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	switch len(zr.File) {
	case 0:
		return nil, ErrEmptyArchive
	case 1:
	default:
		return nil, fmt.Errorf("%w: %d entries", ErrAmbiguousArchive, len(zr.File))
	}

	rc, err := zr.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s inside archive: %w", zr.File[0].Name, err)
	}
	return rc, nil
}
