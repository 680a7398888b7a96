package model

// Package model defines domain data structures used across the app: parsed
// replays, their players, the in-game character and stage enums, and the
// replay set that backs the list panel. Values are built once per parse and
// replaced wholesale on reload.
