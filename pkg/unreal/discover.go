package unreal

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
)

// Project is a materialized instance found on disk
type Project struct {
	Name string
	Dir  string
}

// FindProject returns the project in dir if it holds both the essentials
// directory and a project descriptor.
func FindProject(fsys filesystem.FS, dir, essentialsDir string) (*Project, bool) {
	if !filesystem.IsDir(fsys, filepath.Join(dir, essentialsDir)) {
		return nil, false
	}
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, false
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ProjectExt) {
			continue
		}
		return &Project{Name: strings.TrimSuffix(name, filepath.Ext(name)), Dir: dir}, true
	}
	return nil, false
}

// FindProjects lists the projects directly below root, sorted by name
func FindProjects(fsys filesystem.FS, root, essentialsDir string) ([]Project, error) {
	entries, err := fsys.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list %s", root).WithPath(root)
	}
	var projects []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if p, ok := FindProject(fsys, filepath.Join(root, entry.Name()), essentialsDir); ok {
			projects = append(projects, *p)
		}
	}
	return projects, nil
}
