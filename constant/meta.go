// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

import _ "embed"

const (
	// Keypoint is the canonical application identifier used for filesystem paths and CLI branding.
	Keypoint = "keypoint"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent with every media and update request.
	UserAgent = Keypoint + "/" + Version

	// Repository is the GitHub owner/name pair releases are published under.
	Repository = "keypoint-cli/keypoint"

	// BundleID prefixes store product identifiers.
	BundleID = "com.keypoint.app"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Logo is the banner of the root command help.
//
//go:embed ascii.txt
var Logo string

// Values of runtime.GOOS that get platform specific treatment.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
