// Package version reads and rewrites the release version of a project.
//
// The authoritative version lives in a marker source file as an assignment
// such as `__version__ = "1.2.3"`. An optional manifest (pyproject.toml,
// Cargo.toml and similar) carries a copy of it inside its primary section.
// Both files are edited in place with a full read-modify-write; nothing else
// in either file is touched.
package version

import (
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

// Version is a release version triple. Components are never negative.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Zero is returned when a marker file carries no version assignment.
var Zero = Version{}

// strictPattern accepts exactly three dot separated decimal components.
var strictPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// String renders the version as "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag returns the git tag name for the version ("v1.2.3").
func (v Version) Tag() string {
	return "v" + v.String()
}

// Validate reports whether candidate has the strict "int.int.int" shape.
// Pre-release suffixes, build metadata, a leading "v", missing components
// and surrounding whitespace are all rejected.
func Validate(candidate string) bool {
	m := strictPattern.FindStringSubmatch(candidate)
	if m == nil {
		return false
	}
	for _, part := range m[1:] {
		if _, err := strconv.Atoi(part); err != nil {
			// Out of int range.
			return false
		}
	}
	return true
}

// Parse converts a strict "int.int.int" string into a Version.
func Parse(s string) (Version, error) {
	if !Validate(s) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	m := strictPattern.FindStringSubmatch(s)
	// Validate already proved every component converts.
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// SuggestNext returns the next patch release.
func SuggestNext(current Version) Version {
	return Version{Major: current.Major, Minor: current.Minor, Patch: current.Patch + 1}
}

// Compare orders two versions using semantic version precedence.
// The result is -1, 0 or +1.
func Compare(a, b Version) int {
	return semver.Compare(a.Tag(), b.Tag())
}
