package model

// ScanStatus represents the state of a replay folder scan
type ScanStatus string

const (
	// ScanStatusScanning means files are being enumerated and parsed
	ScanStatusScanning ScanStatus = "Scanning"

	// ScanStatusReady means the last scan finished and the list is current
	ScanStatusReady ScanStatus = "Ready"

	// ScanStatusError means the last scan failed before producing a list
	ScanStatusError ScanStatus = "Error"
)

// String returns the string representation of ScanStatus
func (s ScanStatus) String() string {
	return string(s)
}

// IsActive returns true while a scan is in progress
func (s ScanStatus) IsActive() bool {
	return s == ScanStatusScanning
}

// IsFinished returns true if the scan reached a terminal state (ready or error)
func (s ScanStatus) IsFinished() bool {
	return s == ScanStatusReady || s == ScanStatusError
}
