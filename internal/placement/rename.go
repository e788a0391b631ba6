package placement

import (
	"os"

	"github.com/morganp/mp3tag/internal/fileio"
)

var renameFile = os.Rename

func reopen(path string, writable bool) (*fileio.File, error) {
	if writable {
		return fileio.OpenRW(path)
	}
	return fileio.Open(path)
}

func removeTemp(path string) {
	_ = os.Remove(path)
}
