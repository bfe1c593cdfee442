package database

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Backup writes a point-in-time copy of the store into backupsDir and
// returns the created file path. File-based stores are copied as-is;
// everything else exports the portable record set to a timestamped
// JSON side file.
func (m *Manager) Backup(backupsDir, name string) (string, error) {
	if err := os.MkdirAll(backupsDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("backup_%s_%s", m.Type(), time.Now().Format("20060102_150405"))
	}

	if m.FileBased() {
		// flush the WAL so the main file alone carries all commits
		m.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		dst := filepath.Join(backupsDir, name+".db")
		if err := copyFile(m.FilePath(), dst); err != nil {
			return "", fmt.Errorf("copy store file: %w", err)
		}
		return dst, nil
	}

	data, err := m.ExportAll()
	if err != nil {
		return "", err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal backup: %w", err)
	}
	dst := filepath.Join(backupsDir, name+".json")
	if err := os.WriteFile(dst, raw, 0o600); err != nil {
		return "", fmt.Errorf("write backup file: %w", err)
	}
	return dst, nil
}

// WriteExport saves a portable record set as a JSON export file under
// exportsDir and returns the file path.
func WriteExport(data *ExportData, exportsDir, name string) (string, error) {
	if err := os.MkdirAll(exportsDir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if name == "" {
		name = fmt.Sprintf("%s_export_%s", data.ExportInfo.SourceType, time.Now().Format("20060102_150405"))
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export: %w", err)
	}
	path := filepath.Join(exportsDir, name+".json")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
