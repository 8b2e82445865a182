package content

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed data
var builtin embed.FS

// Default returns the content pack shipped with the binary.
func Default() (*Set, error) {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// FromDirOrDefault loads content from dir when it is set and exists,
// otherwise falls back to the embedded pack.
func FromDirOrDefault(dir string) (*Set, error) {
	if dir == "" {
		return Default()
	}
	if _, err := os.Stat(dir); err != nil {
		return Default()
	}
	return Load(os.DirFS(dir))
}
