package slp

import "errors"

var (
	// ErrNotReplay is returned when the file does not start with the replay UBJSON envelope
	ErrNotReplay = errors.New("not a slippi replay")
	// ErrMissingPayloads is returned when the raw stream does not begin with Event Payloads
	ErrMissingPayloads = errors.New("event payloads event missing")
	// ErrMissingGameStart is returned when no Game Start event precedes the first frame
	ErrMissingGameStart = errors.New("game start event missing")
	// ErrUnknownCommand is returned for a command byte absent from the payload size table
	ErrUnknownCommand = errors.New("unknown event command")
	// ErrTruncated is returned when the stream ends before Game Start is complete
	ErrTruncated = errors.New("replay truncated")
	// ErrUBJSON is returned for malformed UBJSON data
	ErrUBJSON = errors.New("malformed ubjson")
)
