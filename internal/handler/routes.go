package handler

// Route roots. Tests build URLs from these instead of repeating literals.
const (
	APIV1Prefix = "/api/v1"

	PathLive  = "/live"
	PathReady = "/ready"
)
