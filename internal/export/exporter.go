package export

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"pesertagen/internal/logger"
	"pesertagen/internal/models"
	"pesertagen/internal/sheet"
)

// FileEntry describes one written file.
type FileEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Key  string `json:"key,omitempty"`
	Rows int    `json:"rows"`
	Size int64  `json:"size"`
}

// Manifest lists everything one export wrote.
type Manifest struct {
	Dir     string      `json:"dir"`
	Files   []FileEntry `json:"files"`
	Archive FileEntry   `json:"archive"`
}

// ArchiveEntry is one member of a zip archive.
type ArchiveEntry struct {
	Name string
	Data []byte
}

// Exporter writes group workbooks and the combined archive.
type Exporter struct {
	logger *logger.Logger
}

// NewExporter creates a new exporter instance.
func NewExporter(log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.NewNop()
	}

	return &Exporter{logger: log}
}

// RenderGroups renders each group as a workbook named after the institution
// and the group key. Colliding names get a numeric suffix.
func RenderGroups(institutionName string, groups []models.OutputGroup) ([]ArchiveEntry, error) {
	used := make(map[string]bool, len(groups))

	entries := make([]ArchiveEntry, 0, len(groups))
	for _, g := range groups {
		data, err := sheet.WorkbookBytes(models.OutputColumns, g.Values())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render group %q", g.Key)
		}

		entries = append(entries, ArchiveEntry{
			Name: uniqueName(GroupFileName(institutionName, g.Key), used),
			Data: data,
		})
	}

	return entries, nil
}

// WriteArchive writes entries to w as a deflate-compressed zip.
func WriteArchive(w io.Writer, entries []ArchiveEntry) error {
	zw := zip.NewWriter(w)

	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
		if err != nil {
			return errors.Wrapf(err, "failed to add %s to archive", e.Name)
		}

		if _, err := fw.Write(e.Data); err != nil {
			return errors.Wrapf(err, "failed to write %s to archive", e.Name)
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize archive")
	}

	return nil
}

// Export writes one workbook per group and the archive into dir.
func (e *Exporter) Export(ctx context.Context, dir string, inst models.Institution, groups []models.OutputGroup) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	entries, err := RenderGroups(inst.Name, groups)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{Dir: dir, Files: make([]FileEntry, 0, len(entries))}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "export cancelled")
		}

		path := filepath.Join(dir, entry.Name)
		if err := os.WriteFile(path, entry.Data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", entry.Name)
		}

		manifest.Files = append(manifest.Files, FileEntry{
			Name: entry.Name,
			Path: path,
			Type: FileType(entry.Name),
			Key:  groups[i].Key,
			Rows: groups[i].Len(),
			Size: int64(len(entry.Data)),
		})

		e.logger.Debug("group workbook written", "file", entry.Name, "rows", groups[i].Len())
	}

	archive, err := e.writeArchiveFile(dir, ArchiveName(inst.Name), entries)
	if err != nil {
		return nil, err
	}

	for _, f := range manifest.Files {
		archive.Rows += f.Rows
	}

	manifest.Archive = archive

	e.logger.Info("export complete",
		"dir", dir,
		"workbooks", len(manifest.Files),
		"archive", archive.Name,
	)

	return manifest, nil
}

func (e *Exporter) writeArchiveFile(dir, name string, entries []ArchiveEntry) (FileEntry, error) {
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return FileEntry{}, errors.Wrap(err, "failed to create archive")
	}

	if err := WriteArchive(f, entries); err != nil {
		f.Close()
		return FileEntry{}, err
	}

	if err := f.Close(); err != nil {
		return FileEntry{}, errors.Wrap(err, "failed to close archive")
	}

	info, err := os.Stat(path)
	if err != nil {
		return FileEntry{}, errors.Wrap(err, "failed to stat archive")
	}

	return FileEntry{Name: name, Path: path, Type: FileType(name), Size: info.Size()}, nil
}
