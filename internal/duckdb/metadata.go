package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Role    string // "genome", "annotation", "breakpoints"
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(role, path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Role:    role,
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func writeSources(ctx context.Context, conn *sql.Conn, files []FileFingerprint) error {
	for _, f := range files {
		if _, err := conn.ExecContext(ctx, "DELETE FROM sources WHERE role=?", f.Role); err != nil {
			return fmt.Errorf("replace source %s: %w", f.Role, err)
		}
		if _, err := conn.ExecContext(ctx, `INSERT INTO sources (role, path, size, mod_time) VALUES (?, ?, ?, ?)`,
			f.Role, f.Path, f.Size, f.ModTime.UTC()); err != nil {
			return fmt.Errorf("write source %s: %w", f.Role, err)
		}
	}
	return nil
}

// Sources returns the recorded input files ordered by role.
func (s *Store) Sources() ([]FileFingerprint, error) {
	rows, err := s.db.Query(`SELECT role, path, size, mod_time FROM sources ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var out []FileFingerprint
	for rows.Next() {
		var f FileFingerprint
		if err := rows.Scan(&f.Role, &f.Path, &f.Size, &f.ModTime); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sources: %w", err)
	}
	return out, nil
}
