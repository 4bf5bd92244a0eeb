// Package archive exports and restores the synthsim store as portable
// snapshot files, so populations and run results can be shared or kept
// beyond the life of a project database.
package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"synthsim/internal/engine"
	"synthsim/internal/persona"
	"synthsim/internal/store"
)

// FormatVersion is the snapshot format written by this package.
const FormatVersion = 1

// MaxDecompressedSize caps the decompressed payload (200MB).
const MaxDecompressedSize = 200 * 1024 * 1024

// Snapshot is the JSON payload of an archive file.
type Snapshot struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Personas  []persona.Persona `json:"personas"`
	Runs      []*engine.Run     `json:"runs"`
}

// Header is the plain-text first line of an archive file. It can be read
// without decompressing the payload.
type Header struct {
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	Checksum     string    `json:"checksum"`
	PersonaCount int       `json:"persona_count"`
	RunCount     int       `json:"run_count"`
}

// Write exports all personas and runs from the store to path.
// The file is a header line followed by a gzip-compressed JSON payload.
func Write(ctx context.Context, s store.Store, path string) (*Snapshot, error) {
	personas, err := s.ListPersonas(ctx)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	// ListRuns omits outcomes, so fetch each run in full.
	stubs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]*engine.Run, 0, len(stubs))
	for _, stub := range stubs {
		run, err := s.GetRun(ctx, stub.ID)
		if err != nil {
			return nil, fmt.Errorf("load run %s: %w", stub.ID, err)
		}
		runs = append(runs, run)
	}

	snap := &Snapshot{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Personas:  personas,
		Runs:      runs,
	}

	if err := writeFile(path, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func writeFile(path string, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(payload); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}

	hash := sha256.Sum256(compressed.Bytes())
	header := Header{
		Version:      FormatVersion,
		CreatedAt:    snap.CreatedAt,
		Checksum:     "sha256:" + hex.EncodeToString(hash[:]),
		PersonaCount: len(snap.Personas),
		RunCount:     len(snap.Runs),
	}
	headerBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := f.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := f.Write(compressed.Bytes()); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}

// ReadHeader reads only the header line of an archive file.
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	headerLine, err := bufio.NewReader(f).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read header line: %w", err)
	}
	var header Header
	if err := json.Unmarshal(bytes.TrimSpace(headerLine), &header); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported archive version %d", header.Version)
	}
	return &header, nil
}

// Read loads an archive file, verifying the checksum before decompressing.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	headerLine, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read header line: %w", err)
	}
	var header Header
	if err := json.Unmarshal(bytes.TrimSpace(headerLine), &header); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported archive version %d", header.Version)
	}

	compressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	hash := sha256.Sum256(compressed)
	if got := "sha256:" + hex.EncodeToString(hash[:]); got != header.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", header.Checksum, got)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open gzip payload: %w", err)
	}
	defer gzr.Close()

	decompressed, err := io.ReadAll(io.LimitReader(gzr, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	if int64(len(decompressed)) > MaxDecompressedSize {
		return nil, fmt.Errorf("payload exceeds maximum size of %d bytes", MaxDecompressedSize)
	}

	var snap Snapshot
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// RestoreMode controls how Restore handles existing data.
type RestoreMode string

const (
	// RestoreMerge keeps the stored population and skips runs that already exist.
	RestoreMerge RestoreMode = "merge"
	// RestoreReplace overwrites the population and rewrites every run.
	RestoreReplace RestoreMode = "replace"
)

// RestoreResult reports what a restore did.
type RestoreResult struct {
	PersonasRestored int `json:"personas_restored"`
	RunsRestored     int `json:"runs_restored"`
	RunsSkipped      int `json:"runs_skipped"`
}

// Restore imports an archive file into the store.
func Restore(ctx context.Context, s store.Store, path string, mode RestoreMode) (*RestoreResult, error) {
	snap, err := Read(path)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{}

	existing := make(map[string]bool)
	if mode == RestoreMerge {
		stubs, err := s.ListRuns(ctx)
		if err != nil {
			return nil, fmt.Errorf("list existing runs: %w", err)
		}
		for _, r := range stubs {
			existing[r.ID] = true
		}
	}

	// SavePersonas replaces the population, so in merge mode only write
	// personas when the archive actually carries some.
	if mode == RestoreReplace || len(snap.Personas) > 0 {
		if err := s.SavePersonas(ctx, snap.Personas); err != nil {
			return nil, fmt.Errorf("restore personas: %w", err)
		}
		result.PersonasRestored = len(snap.Personas)
	}

	for _, run := range snap.Runs {
		if existing[run.ID] {
			result.RunsSkipped++
			continue
		}
		if err := s.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("restore run %s: %w", run.ID, err)
		}
		result.RunsRestored++
	}

	return result, nil
}

// Path builds a timestamped archive filename in dir.
func Path(dir string) string {
	ts := time.Now().Format("20060102-150405")
	return filepath.Join(dir, fmt.Sprintf("synthsim-archive-%s.json.gz", ts))
}
