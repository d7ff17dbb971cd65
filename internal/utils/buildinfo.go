package utils

import "runtime/debug"

const developmentVersion = "dev"

// GetApplicationVersion reports the module version recorded in the build
// information, falling back to a development marker for local builds.
func GetApplicationVersion() string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if buildInformationAvailable && buildInformation.Main.Version != "" && buildInformation.Main.Version != "(devel)" {
		return buildInformation.Main.Version
	}
	return developmentVersion
}
