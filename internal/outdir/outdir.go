// Package outdir manages the directory cleaned documents are written to.
package outdir

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SumsFileName is the checksum listing written next to the outputs.
const SumsFileName = "SHA256SUMS"

// Dir is an output directory. With StrictPerms set, directories are created
// 0700 and files 0600.
type Dir struct {
	Path        string
	StrictPerms bool
}

func (d *Dir) dirMode() os.FileMode {
	if d.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (d *Dir) fileMode() os.FileMode {
	if d.StrictPerms {
		return 0o600
	}
	return 0o644
}

// Ensure creates the directory and, under StrictPerms, tightens the mode of
// a directory that already existed.
func (d *Dir) Ensure() error {
	if d == nil || strings.TrimSpace(d.Path) == "" {
		return errors.New("output dir not configured")
	}
	if err := os.MkdirAll(d.Path, d.dirMode()); err != nil {
		return err
	}
	if d.StrictPerms {
		if info, err := os.Stat(d.Path); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(d.Path, 0o700)
		}
	}
	return nil
}

// Clear removes the directory and all contents, then recreates it empty.
func (d *Dir) Clear() error {
	if d == nil || strings.TrimSpace(d.Path) == "" {
		return errors.New("output dir not configured")
	}
	clean := filepath.Clean(d.Path)
	if clean == "/" || clean == "." {
		return fmt.Errorf("refusing to clear %q", d.Path)
	}
	if err := os.RemoveAll(clean); err != nil {
		return err
	}
	return d.Ensure()
}

// PathFor returns the full path of a file named name inside the directory.
func (d *Dir) PathFor(name string) string { return filepath.Join(d.Path, name) }

// Contains reports whether path is the directory itself or lies below it.
// Symlinks are resolved where the path exists. When either side cannot be
// made absolute the path is reported as contained.
func (d *Dir) Contains(path string) bool {
	base, err := resolve(d.Path)
	if err != nil {
		return true
	}
	p, err := resolve(path)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// WriteFile stores data under name through a temporary file and rename so
// readers never observe a partial file. It returns the SHA-256 of data.
func (d *Dir) WriteFile(name string, data []byte) (string, error) {
	if err := d.Ensure(); err != nil {
		return "", err
	}
	dst := d.PathFor(name)
	tmp, err := os.CreateTemp(d.Path, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Chmod(d.fileMode()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return SHA256Hex(data), nil
}

// Sum pairs an output file name with its digest.
type Sum struct {
	Name   string
	SHA256 string
}

// WriteSums writes a sha256sum-compatible listing of sums sorted by name.
func (d *Dir) WriteSums(sums []Sum) error {
	sorted := append([]Sum(nil), sums...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	var b strings.Builder
	for _, s := range sorted {
		b.WriteString(s.SHA256)
		b.WriteString("  ")
		b.WriteString(s.Name)
		b.WriteString("\n")
	}
	_, err := d.WriteFile(SumsFileName, []byte(b.String()))
	return err
}

// SHA256Hex returns the lowercase hex SHA-256 of data.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
