// Package archive keeps a zip backup of every original export and detects
// byte-identical files by content hash.
package archive

import (
	"archive/zip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup is a deflate-compressed zip archive that originals are copied into
// before they are removed.
type Backup struct {
	path string
	file *os.File
	zw   *zip.Writer
}

// Name returns the archive file name for a run started at t.
func Name(prefix, layout string, t time.Time) string {
	return prefix + t.Format(layout) + ".zip"
}

// Create makes dir if needed and opens a new archive named name inside it.
func Create(dir, name string) (*Backup, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}

	return &Backup{path: path, file: f, zw: zip.NewWriter(f)}, nil
}

// Path returns the location of the archive on disk.
func (b *Backup) Path() string { return b.path }

// Add copies the file at path into the archive under its base name.
func (b *Backup) Add(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	hdr.Name = filepath.Base(path)
	hdr.Method = zip.Deflate

	w, err := b.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("backup %s: %w", path, err)
	}
	return nil
}

// Close finishes the archive.
func (b *Backup) Close() error {
	if err := b.zw.Close(); err != nil {
		b.file.Close()
		return fmt.Errorf("close backup: %w", err)
	}
	if err := b.file.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	return nil
}

// HashFile returns the hex MD5 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Seen remembers content hashes within one run.
type Seen struct {
	hashes map[string]struct{}
}

// NewSeen returns an empty set.
func NewSeen() *Seen {
	return &Seen{hashes: make(map[string]struct{})}
}

// Check records hash and reports whether it was already present.
func (s *Seen) Check(hash string) bool {
	if _, ok := s.hashes[hash]; ok {
		return true
	}
	s.hashes[hash] = struct{}{}
	return false
}

// Len returns the number of distinct hashes seen.
func (s *Seen) Len() int { return len(s.hashes) }
