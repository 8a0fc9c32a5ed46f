package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"packaging_cell/internal/robot"

	"github.com/spf13/afero"
)

// ProgramFiles serves controller programs from a directory.
type ProgramFiles struct {
	fs  afero.Fs
	dir string
}

func NewProgramFiles(fs afero.Fs, dir string) *ProgramFiles {
	return &ProgramFiles{fs: fs, dir: dir}
}

var (
	_ ProgramStore        = (*ProgramFiles)(nil)
	_ robot.ProgramSource = (*ProgramFiles)(nil)
)

// Load reads the program named id. Missing files yield *robot.SourceNotFoundError.
// id cannot escape the program directory.
func (p *ProgramFiles) Load(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(p.dir, filepath.Clean(string(filepath.Separator)+id))
	b, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &robot.SourceNotFoundError{Source: id}
		}
		return "", fmt.Errorf("read program %q: %w", id, err)
	}
	return string(b), nil
}

// List returns the program names in the directory, sorted.
func (p *ProgramFiles) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(p.fs, p.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list programs in %q: %w", p.dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if !fi.IsDir() {
			names = append(names, fi.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
