package platform

// Package platform contains OS/platform integration: replay file discovery
// with glob patterns, default replay locations, and OS open/reveal helpers.
