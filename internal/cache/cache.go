package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

// Write serializes the enriched table to a Parquet file at path. The file
// is written to a temp sibling and renamed into place, so readers either
// see the previous cache or the complete new one, never a partial write.
// Row order is preserved; categorical columns use dictionary pages per the
// schema tags on domain.EnrichedRecord.
func Write(path string, records []domain.EnrichedRecord) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.parquet")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := parquet.NewGenericWriter[domain.EnrichedRecord](tmp)
	if _, err := writer.Write(records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to finalize cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move cache into place: %w", err)
	}
	return nil
}

// Read loads the cached table. Values and column kinds round-trip exactly
// as written.
func Read(path string) ([]domain.EnrichedRecord, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("cache file %s does not exist: %w", path, err)
	}
	records, err := parquet.ReadFile[domain.EnrichedRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache %s: %w", path, err)
	}
	return records, nil
}

// Fresh reports whether the cache at cachePath is newer than every input.
// A missing cache is stale; a missing input does not count against the
// cache (the batch loader will surface the real error). Staleness is
// judged by modification time; an explicit reprocessing request must
// bypass this check entirely.
func Fresh(cachePath string, inputs ...string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			continue
		}
		if info.ModTime().After(cacheInfo.ModTime()) {
			return false
		}
	}
	return true
}

// Version derives an identity string for the cache file from its size and
// modification time. Aggregation memo keys embed it so a rewritten cache
// invalidates every memoized result at once.
func Version(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat cache: %w", err)
	}
	return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
}
