// unarchive.go
package main

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
)

// openUpload wraps an uploaded file in a decompressing reader when the
// filename carries a known archive extension. Plain files pass through.
// For zip archives the largest member is taken, which matches how exports
// from spreadsheet tools bundle one data file with metadata noise.
func openUpload(filename string, r io.Reader) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		return openZip(r)
	case ".gz":
		return gzip.NewReader(r)
	case ".lz4":
		return lz4.NewReader(r), nil
	}
	return r, nil
}

func openZip(r io.Reader) (io.Reader, error) {
	// zip needs random access, buffer the upload first
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, err
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return bytes.NewReader(nil), nil
	}
	return largestFile.Open()
}
