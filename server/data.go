package server

import "go-portprobe/database"

// response defines the basic HTTP response returned by the server.
type response struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ScansResponse defines the JSON structure for the scan history.
type ScansResponse struct {
	Scans []database.ScanRecord `json:"scans"`
}

// ScanFailedResponse is returned when a scan started but did not complete.
type ScanFailedResponse struct {
	response
	Scan *database.ScanRecord `json:"scan,omitempty"`
}

const defaultHistoryLimit = 20
