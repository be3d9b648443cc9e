package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-chunk/internal/chunk"
)

// ChunkEntry is one catalog row describing an output sequence.
type ChunkEntry struct {
	Name        string
	Chrom       string
	Ordinal     int64
	Start       int64 // 1-based start on the original chromosome
	End         int64
	Records     int64
	PassThrough bool
}

// ChromosomeEntry summarises one chromosome of a run.
type ChromosomeEntry struct {
	Chrom   string
	Length  int64
	Chunks  int64
	Records int64
	Dropped int64
}

// WriteRun records one apply run in a single transaction: rows for the
// chromosomes in results replace any earlier rows, chunk and chromosome
// rows are batch-inserted with the Appender API, and sources replace the
// entries with the same role. If commit is non-nil it runs once every row
// is staged and before the transaction commits; an error from it rolls the
// catalog back.
func (s *Store) WriteRun(results []*chunk.Result, sources []FileFingerprint, commit func() error) (err error) {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	for _, r := range results {
		if err := deleteChrom(ctx, conn, r.Chrom.Name); err != nil {
			return err
		}
	}
	if err := writeSources(ctx, conn, sources); err != nil {
		return err
	}

	if err := appendRows(conn, "chunks", func(a *goduckdb.Appender) error {
		for _, r := range results {
			for _, c := range r.Chunks {
				if err := a.AppendRow(
					c.Name, c.Segment.Chrom, int64(c.Segment.Ordinal),
					c.Segment.Start, c.Segment.End, int64(len(c.Records)), c.PassThrough,
				); err != nil {
					return fmt.Errorf("append chunk %s: %w", c.Name, err)
				}
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := appendRows(conn, "chromosomes", func(a *goduckdb.Appender) error {
		for _, r := range results {
			if err := a.AppendRow(
				r.Chrom.Name, r.Chrom.Length, int64(len(r.Chunks)),
				int64(r.RecordCount()), int64(len(r.Dropped)),
			); err != nil {
				return fmt.Errorf("append chromosome %s: %w", r.Chrom.Name, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if commit != nil {
		if err := commit(); err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

func appendRows(conn *sql.Conn, table string, fill func(*goduckdb.Appender) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	if err := fill(appender); err != nil {
		return err
	}
	return appender.Flush()
}

func deleteChrom(ctx context.Context, conn *sql.Conn, chrom string) error {
	if _, err := conn.ExecContext(ctx, "DELETE FROM chunks WHERE chrom=?", chrom); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", chrom, err)
	}
	if _, err := conn.ExecContext(ctx, "DELETE FROM chromosomes WHERE chrom=?", chrom); err != nil {
		return fmt.Errorf("delete chromosome %s: %w", chrom, err)
	}
	return nil
}

// LookupChunk returns the catalog entry for a chunk name.
// The boolean is false when the name is not in the catalog.
func (s *Store) LookupChunk(name string) (ChunkEntry, bool, error) {
	row := s.db.QueryRow(`SELECT
		chunk_name, chrom, ordinal, seg_start, seg_end, records, passthrough
		FROM chunks WHERE chunk_name=?`, name)

	var e ChunkEntry
	err := row.Scan(&e.Name, &e.Chrom, &e.Ordinal, &e.Start, &e.End, &e.Records, &e.PassThrough)
	if errors.Is(err, sql.ErrNoRows) {
		return ChunkEntry{}, false, nil
	}
	if err != nil {
		return ChunkEntry{}, false, fmt.Errorf("query chunk %s: %w", name, err)
	}
	return e, true, nil
}

// ChunksForChrom returns a chromosome's chunks in ordinal order.
func (s *Store) ChunksForChrom(chrom string) ([]ChunkEntry, error) {
	rows, err := s.db.Query(`SELECT
		chunk_name, chrom, ordinal, seg_start, seg_end, records, passthrough
		FROM chunks WHERE chrom=? ORDER BY ordinal`, chrom)
	if err != nil {
		return nil, fmt.Errorf("query chunks for %s: %w", chrom, err)
	}
	defer rows.Close()

	var entries []ChunkEntry
	for rows.Next() {
		var e ChunkEntry
		if err := rows.Scan(&e.Name, &e.Chrom, &e.Ordinal, &e.Start, &e.End, &e.Records, &e.PassThrough); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return entries, nil
}

// Chromosomes returns the per-chromosome summaries ordered by name.
func (s *Store) Chromosomes() ([]ChromosomeEntry, error) {
	rows, err := s.db.Query(`SELECT chrom, length, chunks, records, dropped
		FROM chromosomes ORDER BY chrom`)
	if err != nil {
		return nil, fmt.Errorf("query chromosomes: %w", err)
	}
	defer rows.Close()

	var out []ChromosomeEntry
	for rows.Next() {
		var e ChromosomeEntry
		if err := rows.Scan(&e.Chrom, &e.Length, &e.Chunks, &e.Records, &e.Dropped); err != nil {
			return nil, fmt.Errorf("scan chromosome: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chromosomes: %w", err)
	}
	return out, nil
}
