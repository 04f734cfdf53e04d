package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Materialize and update Convai modding projects for Unreal Engine"
	MsgRootLong  = `moddingtool creates a modding project from the engine's blank template,
renames it, merges the Convai settings into its configuration, installs the
Convai plugins and content packs, and builds it. Existing projects are brought
up to date with the update command.`
	MsgCreateShort   = "Create a new modding project"
	MsgUpdateShort   = "Update an existing modding project"
	MsgRewriteShort  = "Rename an identifier in file names and text files below a directory"
	MsgMergeIniShort = "Merge the sections of one settings file into another"
	MsgInstallShort  = "Install a plugin archive into a directory"
	MsgInspectShort  = "Show the stored parameters of a modding project"
	MsgDoctorShort   = "Check the engine, toolchain and build prerequisites"
	MsgConfigShort   = "Manage the tool configuration"
	MsgConfigInit    = "Write the default configuration file"
	MsgConfigShow    = "Print the effective configuration"
	MsgVersionShort  = "Print version information"

	// Flags
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (default ./moddingtool.toml)"
	MsgFlagNoInput   = "Never prompt; fail when a required value is missing"
	MsgFlagFormat    = "Output format: auto, term, text, json, yaml, markdown"
	MsgFlagName      = "Project name"
	MsgFlagEngine    = "Unreal Engine installation directory"
	MsgFlagAPIKey    = "Convai API key"
	MsgFlagAssetType = "Asset type: Scene or Avatar"
	MsgFlagMetaHuman = "The avatar is a MetaHuman"
	MsgFlagNoBuild   = "Skip building the project"
	MsgFlagRoot      = "Directory the project is created in (default current directory)"
	MsgFlagPlugin    = "Name of the project's content plugin (default generated)"
	MsgFlagExt       = "Descriptor extension that marks the unit root"
	MsgFlagTextExt   = "Extensions of files whose content is rewritten (default from configuration)"
	MsgFlagForce     = "Overwrite an existing file"
	MsgFlagOutput    = "File to write"

	// Prompts
	MsgPromptName      = "Project name"
	MsgPromptAPIKey    = "Convai API key"
	MsgPromptAssetType = "Asset type"
	MsgPromptMetaHuman = "Is the avatar a MetaHuman?"
	MsgPromptEngine    = "Unreal Engine installation directory"
	MsgPromptProject   = "Project to update"

	// Status messages
	MsgCreating      = "Creating %s"
	MsgUpdating      = "Updating %s"
	MsgCreated       = "Created project"
	MsgUpdated       = "Updated project"
	MsgMerged        = "Merged %s into %s"
	MsgConfigWritten = "Wrote %s"
	MsgChecksFailed  = "%d check(s) failed"
	MsgNoProjects    = "no modding project found in %s"
)
