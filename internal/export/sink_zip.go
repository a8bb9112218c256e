package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// BuildZip packs rendered groups into a single in-memory zip archive
// using the same <folder>/<bucket>.yaml paths the directory sink
// writes. Entries are added in sorted path order with fixed headers
// (no modification time), so one snapshot always produces the same
// archive bytes.
func BuildZip(groups []RenderedGroup) ([]byte, error) {
	sorted := slices.Clone(groups)
	slices.SortFunc(sorted, func(a, b RenderedGroup) int {
		return strings.Compare(a.Path, b.Path)
	})

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	for _, g := range sorted {
		hdr := &zip.FileHeader{
			Name:   g.Path,
			Method: zip.Deflate,
		}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			zw.Close()
			return nil, fmt.Errorf("create archive entry %s: %w", g.Path, err)
		}
		if _, err := w.Write(g.Data); err != nil {
			zw.Close()
			return nil, fmt.Errorf("write archive entry %s: %w", g.Path, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
