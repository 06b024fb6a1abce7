// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Flyby geometry model, smear-limited exposure, interactive plan preview
// 0.2.0 - Sun-side mosaics and scans, tour-ordered custom mosaics, plan reports
// 0.1.0 - Initial release: disk mosaics, slit scans, PTR output
