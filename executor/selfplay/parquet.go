package selfplay

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/pkg/errors"
)

const statsSchema = "decision_stat_v1"

// WriteStatsParquetAtomic writes rows into outDir/tmp and then renames the
// file into outDir, so readers never see a half-written file. It returns the
// final path.
func WriteStatsParquetAtomic(outDir string, rows []DecisionStat) (string, error) {
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create tmp dir")
	}

	name := fmt.Sprintf("stats_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", statsSchema),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "write parquet")
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "rename parquet")
	}
	return finalPath, nil
}

// ReadStatsParquet loads a file written by WriteStatsParquetAtomic.
func ReadStatsParquet(path string) ([]DecisionStat, error) {
	rows, err := parquet.ReadFile[DecisionStat](path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return rows, nil
}

// StatsWriter batches rows from several games and flushes every
// gamesPerFlush games.
type StatsWriter struct {
	outDir        string
	gamesPerFlush int
	pending       []DecisionStat
	pendingGames  int
}

func NewStatsWriter(outDir string, gamesPerFlush int) *StatsWriter {
	if gamesPerFlush <= 0 {
		gamesPerFlush = 50
	}
	return &StatsWriter{outDir: outDir, gamesPerFlush: gamesPerFlush}
}

// Add queues one game's rows and returns the path of the file written, if
// this game completed a batch.
func (w *StatsWriter) Add(rows []DecisionStat) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}
	w.pending = append(w.pending, rows...)
	w.pendingGames++
	if w.pendingGames < w.gamesPerFlush {
		return "", nil
	}
	return w.Flush()
}

// Flush writes whatever is queued. It is a no-op when nothing is.
func (w *StatsWriter) Flush() (string, error) {
	if len(w.pending) == 0 {
		return "", nil
	}
	path, err := WriteStatsParquetAtomic(w.outDir, w.pending)
	if err != nil {
		return "", errors.Wrapf(err, "flush %d games", w.pendingGames)
	}
	w.pending = w.pending[:0]
	w.pendingGames = 0
	return path, nil
}
