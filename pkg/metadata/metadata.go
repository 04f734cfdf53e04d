// Package metadata persists the parameters an instance was materialized
// with, so that update runs can rediscover them without asking again.
package metadata

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/filesystem"
	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/logging"
)

// DefaultFileName is the metadata file inside the essentials directory
const DefaultFileName = "ModdingMetaData.json"

// Asset types
const (
	AssetScene  = "Scene"
	AssetAvatar = "Avatar"
)

// ErrNotFound is returned by Read when the instance has no metadata
var ErrNotFound = stderrors.New("metadata not found")

// Metadata is the persisted record of one instance
type Metadata struct {
	ProjectName   string    `json:"project_name"`
	PluginName    string    `json:"plugin_name"`
	AssetType     string    `json:"asset_type"`
	IsMetaHuman   bool      `json:"is_metahuman"`
	EngineVersion string    `json:"engine_version,omitempty"`
	ToolVersion   string    `json:"tool_version,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Validate checks the fields an update run depends on
func (m *Metadata) Validate() error {
	if m.ProjectName == "" {
		return errors.New(errors.ErrMetadata, "metadata has no project name")
	}
	if m.PluginName == "" {
		return errors.New(errors.ErrMetadata, "metadata has no plugin name")
	}
	switch m.AssetType {
	case AssetScene, AssetAvatar:
	default:
		return errors.Newf(errors.ErrMetadata, "metadata has unknown asset type %q", m.AssetType)
	}
	return nil
}

// Path returns the metadata file of the instance in projectDir
func Path(projectDir, essentialsDir, fileName string) string {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return filepath.Join(projectDir, essentialsDir, fileName)
}

// Read loads the metadata at path. A missing file yields an error that
// matches ErrNotFound with errors.Is.
func Read(fsys filesystem.FS, path string) (*Metadata, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, errors.ErrNotFound, "no metadata at %s", path).WithPath(path)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read metadata %s", path).WithPath(path)
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMetadata, "metadata %s is not valid JSON", path).WithPath(path)
	}
	return &m, nil
}

// Write saves m to path, creating parent directories. CreatedAt is set on
// first write and UpdatedAt on every write.
func Write(fsys filesystem.FS, path string, m *Metadata, now time.Time) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode metadata")
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(path)).WithPath(path)
	}
	if err := fsys.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write metadata %s", path).WithPath(path)
	}
	log := logging.GetLogger("metadata")
	log.Debug().Str("path", path).Str("project", m.ProjectName).Msg("Wrote metadata")
	return nil
}
