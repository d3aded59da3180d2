// Package archive snapshots one evaluation run: a timestamped folder holding
// copies of the reference data and the input schedule, plus an empty OUTPUT
// folder the reports land in. The evaluation then reads from the copies, so
// the archive always matches what was actually checked.
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Run is one created archive folder and its three subfolders.
type Run struct {
	Dir          string
	ReferenceDir string
	InputDir     string
	OutputDir    string
}

// Create builds RUNS/RUN_<timestamp>_<id> with REFERENCE, INPUT and OUTPUT
// subfolders, copying the reference folder and the schedule file in. The
// short uuid suffix keeps two runs within the same second apart.
func Create(root, referenceDir, schedulePath string, logger *zap.Logger) (*Run, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	name := fmt.Sprintf("RUN_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8])
	run := &Run{Dir: filepath.Join(root, name)}
	run.ReferenceDir = filepath.Join(run.Dir, "REFERENCE")
	run.InputDir = filepath.Join(run.Dir, "INPUT")
	run.OutputDir = filepath.Join(run.Dir, "OUTPUT")

	for _, dir := range []string{run.ReferenceDir, run.InputDir, run.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create run folder %s: %w", dir, err)
		}
	}

	if err := copyFolder(referenceDir, run.ReferenceDir); err != nil {
		return nil, err
	}
	if err := copyFile(schedulePath, filepath.Join(run.InputDir, filepath.Base(schedulePath))); err != nil {
		return nil, err
	}

	logger.Info("run archive created", zap.String("folder", run.Dir))
	return run, nil
}

// SchedulePath returns the archived copy of the given schedule file.
func (r *Run) SchedulePath(original string) string {
	return filepath.Join(r.InputDir, filepath.Base(original))
}

// copyFolder copies the regular files directly under src; the reference
// folder is flat, so no recursion is needed.
func copyFolder(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read reference folder %s: %w", src, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	return out.Close()
}
