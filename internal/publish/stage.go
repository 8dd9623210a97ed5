package publish

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"longview/internal/fileutil"
)

// StagePrefix names staging directories so stale ones can be found later.
const StagePrefix = ".longview-stage-"

// Stage is a private build directory beside the output directory.
type Stage struct {
	Dir    string
	Output string
}

// NewStage creates an empty staging directory in output's parent.
func NewStage(output string) (*Stage, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, fmt.Errorf("output directory not configured")
	}
	parent := filepath.Dir(output)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("create output parent: %w", err)
	}
	dir := filepath.Join(parent, StagePrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Stage{Dir: dir, Output: output}, nil
}

// CopyPrototype copies a prototype tree (scripts, static images, extra
// pages) into the stage. An empty src is a no-op.
func (s *Stage) CopyPrototype(src string) error {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("prototype directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("prototype %s is not a directory", src)
	}
	return copyTree(src, s.Dir)
}

// AddFile copies src to rel inside the stage, creating parent directories.
func (s *Stage) AddFile(src, rel string) error {
	dst := filepath.Join(s.Dir, filepath.Clean(rel))
	if !strings.HasPrefix(dst, s.Dir+string(filepath.Separator)) {
		return fmt.Errorf("destination %q escapes the output directory", rel)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}

// Publish folds the stage into the output directory and removes the stage.
func (s *Stage) Publish() (Changes, error) {
	changes, err := UpdateTree(s.Dir, s.Output)
	if err != nil {
		return changes, err
	}
	return changes, s.Discard()
}

// Discard removes the staging directory.
func (s *Stage) Discard() error {
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	return nil
}
