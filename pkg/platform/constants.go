package platform

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"

	// ExtZip is the default archive extension for Windows release assets.
	ExtZip = ".zip"
	// ExtTarGz is the default archive extension for Linux release assets.
	ExtTarGz = ".tar.gz"
)

// ValidOS returns the operating systems third-wheel can select templates for.
func ValidOS() []string {
	return []string{OSWindows, OSLinux}
}
