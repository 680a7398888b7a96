package model

import "testing"

func TestScanStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   ScanStatus
		expected bool
	}{
		{ScanStatusScanning, true},
		{ScanStatusReady, false},
		{ScanStatusError, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("ScanStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestScanStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   ScanStatus
		expected bool
	}{
		{ScanStatusScanning, false},
		{ScanStatusReady, true},
		{ScanStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("ScanStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestScanStatus_String(t *testing.T) {
	status := ScanStatusScanning
	expected := "Scanning"
	result := status.String()

	if result != expected {
		t.Errorf("ScanStatus.String() = %s, expected %s", result, expected)
	}
}
