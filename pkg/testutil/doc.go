// Package testutil builds and compares directory trees and archives for
// tests. Trees are described as map[string]string from slash-separated
// relative paths to file contents.
package testutil
