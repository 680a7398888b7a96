package library

// Package library loads the replays of a folder: it expands the replay glob,
// decodes each file (or reuses the index entry when the file is unchanged),
// drops files that fail to parse, and publishes the resulting set to the UI
// through an update callback.
