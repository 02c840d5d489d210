// Package changelog maintains a Keep a Changelog style CHANGELOG.md.
//
// This package implements:
//   - Release sections ("## [1.2.3] - 2024-01-01") with Added, Changed and
//     Fixed subsections, empty categories omitted
//   - Newest-first insertion directly beneath the changelog title, leaving
//     all earlier content byte for byte intact
//   - A colored terminal preview of a section before it is written
package changelog
