// Package slp decodes the header of Slippi replay files: the Game Start and
// Game End events of the raw event stream and the trailing UBJSON metadata
// block. Frame data is skipped without being decoded.
package slp
