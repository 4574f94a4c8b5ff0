package fsutil

// Permission modes used for everything third-wheel writes into the
// target folder. Extracted files keep the mode recorded in their archive.
const (
	FileModeDefault = 0o644 // -rw-r--r--
	FileModeExec    = 0o755 // -rwxr-xr-x

	DirModeDefault = 0o755 // drwxr-xr-x
)
