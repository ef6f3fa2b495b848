package fdr

import "github.com/kolkov/fdrtracer/internal/fdr/logctl"

// Version information for the Pure-Go flight data recorder.
const (
	// Version is the current version of the tracing runtime.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the recorder.
type Info struct {
	// Version is the runtime version string.
	Version string

	// Mode is the recording mode implemented by the runtime.
	Mode string

	// Installed indicates whether a recorder runtime is registered in
	// this process.
	Installed bool
}

// GetInfo returns information about the tracing runtime.
//
// Example:
//
//	info := fdr.GetInfo()
//	fmt.Printf("FDR Tracer %s (%s)\n", info.Version, info.Mode)
func GetInfo() Info {
	return Info{
		Version:   Version,
		Mode:      "flight data recorder",
		Installed: logctl.Default.Implementation() != nil,
	}
}
