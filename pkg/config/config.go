package config

import (
	"fmt"
	"time"
)

// Dependency kinds
const (
	KindPlugin  = "plugin"
	KindContent = "content"
)

// Source types
const (
	SourceGitHub = "github"
	SourceHTTP   = "http"
	SourceGDrive = "gdrive"
	SourceS3     = "s3"
	SourceLocal  = "local"
)

// ConditionAvatarNonMetaHuman restricts a dependency to avatar instances
// that do not use a MetaHuman
const ConditionAvatarNonMetaHuman = "avatar-non-metahuman"

// Config is the complete tool configuration
type Config struct {
	Engine           EngineConfig           `koanf:"engine"`
	Project          ProjectConfig          `koanf:"project"`
	Convai           ConvaiConfig           `koanf:"convai"`
	Build            BuildConfig            `koanf:"build"`
	CrossCompilation CrossCompilationConfig `koanf:"cross_compilation"`
	Download         DownloadConfig         `koanf:"download"`
	S3               S3Config               `koanf:"s3"`
	Assets           AssetsConfig           `koanf:"assets"`
	Dependencies     []Dependency           `koanf:"dependencies"`
}

type EngineConfig struct {
	// Path is the engine installation in use; empty means ask or search DefaultPaths
	Path              string   `koanf:"path"`
	SupportedVersions []string `koanf:"supported_versions"`
	DefaultPaths      []string `koanf:"default_paths"`
	TemplateName      string   `koanf:"template_name"`
	TemplateDir       string   `koanf:"template_dir"`
	VersionHeader     string   `koanf:"version_header"`
}

type ProjectConfig struct {
	MaxNameLength   int      `koanf:"max_name_length"`
	EssentialsDir   string   `koanf:"essentials_dir"`
	ConfigDir       string   `koanf:"config_dir"`
	ContentDir      string   `koanf:"content_dir"`
	PluginsDir      string   `koanf:"plugins_dir"`
	MetadataFile    string   `koanf:"metadata_file"`
	TextExtensions  []string `koanf:"text_extensions"`
	DescriptorExt   string   `koanf:"descriptor_ext"`
	RequiredPlugins []string `koanf:"required_plugins"`
}

type ConvaiConfig struct {
	APIKey string `koanf:"api_key"`
}

type BuildConfig struct {
	ToolPath      string        `koanf:"tool_path"`
	Platform      string        `koanf:"platform"`
	Configuration string        `koanf:"configuration"`
	ExtraArgs     []string      `koanf:"extra_args"`
	Timeout       time.Duration `koanf:"timeout"`
}

type CrossCompilationConfig struct {
	ToolchainVersion string `koanf:"toolchain_version"`
	EnvVar           string `koanf:"env_var"`
}

type DownloadConfig struct {
	Retries    int           `koanf:"retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`
	Timeout    time.Duration `koanf:"timeout"`
	CacheSize  int           `koanf:"cache_size"`
	GitHubAPI  string        `koanf:"github_api"`
	UserAgent  string        `koanf:"user_agent"`
}

type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	Region    string `koanf:"region"`
	Bucket    string `koanf:"bucket"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	UseSSL    bool   `koanf:"use_ssl"`
}

type AssetsConfig struct {
	EditorDir            string `koanf:"editor_dir"`
	UploaderAsset        string `koanf:"uploader_asset"`
	MetaHumansDir        string `koanf:"metahumans_dir"`
	CorePluginDescriptor string `koanf:"core_plugin_descriptor"`
	PakManagerDescriptor string `koanf:"pak_manager_descriptor"`
	CoreBuildFile        string `koanf:"core_build_file"`
}

// Dependency is one downloadable unit installed into every instance
type Dependency struct {
	Name string `koanf:"name"`
	// Kind is KindPlugin (installed under Plugins/ by descriptor) or
	// KindContent (extracted to Content/<Target>)
	Kind        string `koanf:"kind"`
	Descriptor  string `koanf:"descriptor"`
	Target      string `koanf:"target"`
	PostProcess bool   `koanf:"post_process"`
	Condition   string `koanf:"condition"`
	Source      Source `koanf:"source"`
}

// Source says where a dependency archive comes from. Which fields apply
// depends on Type.
type Source struct {
	Type          string   `koanf:"type"`
	Repo          string   `koanf:"repo"`
	Tag           string   `koanf:"tag"`
	AssetPatterns []string `koanf:"asset_patterns"`
	URL           string   `koanf:"url"`
	ID            string   `koanf:"id"`
	Bucket        string   `koanf:"bucket"`
	Key           string   `koanf:"key"`
	Path          string   `koanf:"path"`
	FileName      string   `koanf:"file_name"`
}

// Validate checks invariants the rest of the tool relies on
func (c *Config) Validate() error {
	if len(c.Engine.SupportedVersions) == 0 {
		return fmt.Errorf("engine.supported_versions must not be empty")
	}
	if c.Engine.TemplateName == "" || c.Engine.TemplateDir == "" {
		return fmt.Errorf("engine.template_name and engine.template_dir are required")
	}
	if c.Project.MaxNameLength <= 0 {
		return fmt.Errorf("project.max_name_length must be positive, got %d", c.Project.MaxNameLength)
	}
	if c.Project.DescriptorExt == "" {
		return fmt.Errorf("project.descriptor_ext is required")
	}
	if c.Download.Retries < 1 {
		return fmt.Errorf("download.retries must be at least 1, got %d", c.Download.Retries)
	}

	seen := map[string]bool{}
	for i, dep := range c.Dependencies {
		if dep.Name == "" {
			return fmt.Errorf("dependencies[%d]: name is required", i)
		}
		if seen[dep.Name] {
			return fmt.Errorf("dependencies[%d]: duplicate name %q", i, dep.Name)
		}
		seen[dep.Name] = true

		switch dep.Kind {
		case KindPlugin:
		case KindContent:
			if dep.Target == "" {
				return fmt.Errorf("dependency %q: content dependencies need a target", dep.Name)
			}
		default:
			return fmt.Errorf("dependency %q: unknown kind %q", dep.Name, dep.Kind)
		}

		switch dep.Source.Type {
		case SourceGitHub, SourceHTTP, SourceGDrive, SourceS3, SourceLocal:
		default:
			return fmt.Errorf("dependency %q: unknown source type %q", dep.Name, dep.Source.Type)
		}
	}
	return nil
}

// Dependency returns the dependency with the given name
func (c *Config) Dependency(name string) (Dependency, bool) {
	for _, dep := range c.Dependencies {
		if dep.Name == name {
			return dep, true
		}
	}
	return Dependency{}, false
}

// IsSupportedEngineVersion reports whether version is listed as supported
func (c *Config) IsSupportedEngineVersion(version string) bool {
	for _, v := range c.Engine.SupportedVersions {
		if v == version {
			return true
		}
	}
	return false
}
