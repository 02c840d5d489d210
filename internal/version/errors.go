package version

import "errors"

var (
	// ErrInvalidVersion is returned when a string is not a strict "int.int.int" version.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrVersionNotFound is returned by Write when the marker file has no
	// version assignment to replace.
	ErrVersionNotFound = errors.New("version assignment not found")

	// ErrManifestVersionNotFound is returned when the manifest's primary
	// section exists but has no version line.
	ErrManifestVersionNotFound = errors.New("manifest version not found")

	// ErrAmbiguousManifestVersion is returned when the manifest's primary
	// section has more than one version line. The file is left untouched.
	ErrAmbiguousManifestVersion = errors.New("manifest section has more than one version line")
)
