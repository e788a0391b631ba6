package container

import "os"

func osRename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func osRemove(path string) error { return os.Remove(path) }
