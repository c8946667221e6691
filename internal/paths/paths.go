package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

const (

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644

	// Permission mode for installed executables.
	ExecutableMode os.FileMode = 0755
)

// Directory a per-user install copies the binary into.
//
//	Linux:   ~/.local/bin
//	macOS:   ~/.local/bin
//	Windows: %LOCALAPPDATA%\bin
func UserBin() string {
	if xdg.BinHome != "" {
		return xdg.BinHome
	}
	return filepath.Join(xdg.DataHome, "bin")
}

// Directory a system-wide install copies the binary into.
//
//	Linux/macOS: /usr/local/bin
//	Windows:     %ProgramFiles%
func SystemBin() string {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("ProgramFiles"); dir != "" {
			return dir
		}
		return `C:\Program Files`
	}
	return "/usr/local/bin"
}

// Default location of the resumable run report inside the output
// directory.
func RunReport(output string) string {
	return filepath.Join(output, "report.json")
}
