// Package ops backs up and restores a player's data: the settings file and
// the game history.
package ops

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/history"
	"github.com/Nemex81/solitario-classico-accessibile-sub001/internal/settings"
)

// Profile names the files that make up one player's data.
type Profile struct {
	DataDir      string
	SettingsFile string
	HistoryDB    string
}

func (p Profile) names() []string {
	return []string{p.SettingsFile, p.HistoryDB}
}

func (p Profile) path(name string) string {
	return filepath.Join(p.DataDir, name)
}

// Backup writes a tar.gz holding the settings, normalized through the
// settings loader, and a consistent copy of the history database. Missing
// files are skipped. It returns the entry names written.
func Backup(p Profile, archivePath string, logger *log.Logger) ([]string, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if strings.TrimSpace(p.DataDir) == "" || archivePath == "" {
		return nil, fmt.Errorf("data dir and archive path are required")
	}
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return nil, err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	var written []string
	if b, err := os.ReadFile(p.path(p.SettingsFile)); err == nil {
		canonical, err := settings.Save(settings.Load(b, logger))
		if err != nil {
			return nil, err
		}
		if err := writeEntry(tw, p.SettingsFile, canonical); err != nil {
			return nil, err
		}
		written = append(written, p.SettingsFile)
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if _, err := os.Stat(p.path(p.HistoryDB)); err == nil {
		b, err := snapshotHistory(p.path(p.HistoryDB))
		if err != nil {
			return nil, fmt.Errorf("snapshot history: %w", err)
		}
		if err := writeEntry(tw, p.HistoryDB, b); err != nil {
			return nil, err
		}
		written = append(written, p.HistoryDB)
	} else if !os.IsNotExist(err) {
		return nil, err
	}
	return written, nil
}

func snapshotHistory(path string) ([]byte, error) {
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	dir, err := os.MkdirTemp("", "solitario-backup-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	tmp := filepath.Join(dir, "history.db")
	if err := store.Snapshot(tmp); err != nil {
		return nil, err
	}
	return os.ReadFile(tmp)
}

func writeEntry(tw *tar.Writer, name string, b []byte) error {
	if err := tw.WriteHeader(&tar.Header{
		Name:     name,
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len(b)),
	}); err != nil {
		return err
	}
	_, err := tw.Write(b)
	return err
}

// Restore unpacks an archive made by Backup into p.DataDir. Only the
// profile's own file names are accepted, and a history that does not open
// cleanly is never put in place. It returns the entry names restored.
func Restore(archivePath string, p Profile) ([]string, error) {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if archivePath == "" || strings.TrimSpace(p.DataDir) == "" {
		return nil, fmt.Errorf("archive path and data dir are required")
	}
	if err := os.MkdirAll(p.DataDir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	allowed := map[string]bool{}
	for _, n := range p.names() {
		allowed[n] = true
	}

	var restored []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return restored, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return restored, err
		}
		if !allowed[name] {
			return restored, fmt.Errorf("unexpected archive entry: %s", name)
		}
		var check func(string) error
		if name == p.HistoryDB {
			check = checkHistory
		}
		if err := writeFileAtomic(p.path(name), tr, check); err != nil {
			return restored, err
		}
		restored = append(restored, name)
	}
	return restored, nil
}

func checkHistory(path string) error {
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("restored history: %w", err)
	}
	defer store.Close()
	if _, err := store.Summary(""); err != nil {
		return fmt.Errorf("restored history: %w", err)
	}
	return nil
}

// writeFileAtomic copies r next to path, runs check on the copy and only
// then renames it into place.
func writeFileAtomic(path string, r io.Reader, check func(string) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if check != nil {
		if err := check(tmp.Name()); err != nil {
			return err
		}
	}
	return os.Rename(tmp.Name(), path)
}

func sanitizeArchiveRelPath(name string) (string, error) {
	name = filepath.Clean(strings.TrimSpace(name))
	if name == "." || name == "" {
		return "", fmt.Errorf("invalid archive entry path")
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("invalid absolute archive entry path: %s", name)
	}
	if strings.HasPrefix(name, ".."+string(filepath.Separator)) || name == ".." {
		return "", fmt.Errorf("invalid archive entry path traversal: %s", name)
	}
	return name, nil
}
