package ops

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BackupDataDir writes srcDir as a gzip tarball. In-flight temp files
// from the file store are skipped.
func BackupDataDir(srcDir, archivePath string) error {
	srcDir = filepath.Clean(strings.TrimSpace(srcDir))
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	if srcDir == "" || archivePath == "" {
		return fmt.Errorf("srcDir and archivePath are required")
	}
	info, err := os.Stat(srcDir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("source is not a directory: %s", srcDir)
	}
	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == srcDir {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if isPartialWrite(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if info.IsDir() && !strings.HasSuffix(hdr.Name, "/") {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		if _, err := io.Copy(tw, src); err != nil {
			return err
		}
		return nil
	})
}

// RestoreDataDir unpacks an archive made by BackupDataDir. Entries that
// would land outside targetDir are rejected.
func RestoreDataDir(archivePath, targetDir string) error {
	archivePath = filepath.Clean(strings.TrimSpace(archivePath))
	targetDir = filepath.Clean(strings.TrimSpace(targetDir))
	if archivePath == "" || targetDir == "" {
		return fmt.Errorf("archivePath and targetDir are required")
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		rel, err := sanitizeArchiveRelPath(hdr.Name)
		if err != nil {
			return err
		}
		outPath := filepath.Join(targetDir, rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(outPath, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return err
			}
			dst, err := os.OpenFile(outPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(dst, tr); err != nil {
				_ = dst.Close()
				return err
			}
			if err := dst.Close(); err != nil {
				return err
			}
		}
	}

	return nil
}

func isPartialWrite(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}

// DirDigest hashes every regular file under root with its relative
// path, in sorted order.
func DirDigest(root string) (string, error) {
	root = filepath.Clean(root)
	var entries []string
	if err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isPartialWrite(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	}); err != nil {
		return "", err
	}
	sort.Strings(entries)

	h := sha256.New()
	for _, rel := range entries {
		_, _ = io.WriteString(h, rel+"\n")
		b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, _ = h.Write(b)
		_, _ = io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DrillResult describes a backup and restore rehearsal.
type DrillResult struct {
	Archive    string
	RestoreDir string
	Digest     string
}

// Drill backs dataDir up into workDir, restores it next to the archive
// and checks both trees hash the same.
func Drill(dataDir, workDir string, now time.Time) (DrillResult, error) {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return DrillResult{}, err
	}
	ts := now.UTC().Format("20060102T150405Z")
	res := DrillResult{
		Archive:    filepath.Join(workDir, "smtd-drill-"+ts+".tar.gz"),
		RestoreDir: filepath.Join(workDir, "smtd-drill-restore-"+ts),
	}
	if err := BackupDataDir(dataDir, res.Archive); err != nil {
		return res, err
	}
	if err := RestoreDataDir(res.Archive, res.RestoreDir); err != nil {
		return res, err
	}
	src, err := DirDigest(dataDir)
	if err != nil {
		return res, err
	}
	restored, err := DirDigest(res.RestoreDir)
	if err != nil {
		return res, err
	}
	if src != restored {
		return res, fmt.Errorf("digest mismatch after restore: src=%s restored=%s", src, restored)
	}
	res.Digest = src
	return res, nil
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
