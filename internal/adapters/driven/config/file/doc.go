// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in a TOML file. Keys are addressed with dot
// notation ("embedding.provider") and written back as nested tables.
package file
