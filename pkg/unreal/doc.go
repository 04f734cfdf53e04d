// Package unreal holds the host-engine knowledge the materialization engine
// needs but does not own: reading the engine version from an installation,
// editing .uproject and .uplugin descriptors without reordering them,
// locating installed plugins, patching plugin build rules, naming instances
// and the desired settings documents merged into every instance.
package unreal
