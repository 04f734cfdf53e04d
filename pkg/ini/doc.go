// Package ini reads, merges and writes the flat section/line settings files
// used by the host engine:
//
//	[/Script/Engine.RendererSettings]
//	r.GenerateMeshDistanceFields=True
//	+ActiveGameNameRedirects=(OldGameName="A",NewGameName="B")
//	-ActiveGameNameRedirects=(OldGameName="C",NewGameName="D")
//
// It is deliberately not a general INI parser. A section is a header plus an
// ordered list of trimmed lines; a line is either a scalar "Key=Value" entry
// or a list entry carrying a leading "+" or "-" operator. Blank lines are kept
// as empty placeholders so that a document survives a round trip.
//
// Merge reconciles a desired document into an existing one: scalar lines
// override by key, list lines are applied idempotently by exact text, and
// every section the desired document does not mention is left alone.
package ini
