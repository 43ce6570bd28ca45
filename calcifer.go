// Package calcifer scaffolds React applications from composable features.
package calcifer

// Version is the current calcifer release.
const Version = "0.1.0"
