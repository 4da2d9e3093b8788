package server

import (
	"github.com/ayusman/maestro/internal/actuator"
	"github.com/ayusman/maestro/internal/app"
	"github.com/ayusman/maestro/internal/config"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusResponse is the /api/v1/status payload.
type StatusResponse struct {
	Service       string          `json:"service"`
	Pipeline      app.Stats       `json:"pipeline"`
	Actuator      actuator.Status `json:"actuator"`
	StreamClients int             `json:"stream_clients"`
	Process       ProcessStats    `json:"process"`
}

// ProcessStats reports resource usage of this process.
type ProcessStats struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
}

// ProfileRequest is the create/update payload for a tuning profile. A
// nil Tuning on create snapshots the live tuning under the given name.
type ProfileRequest struct {
	Name   string         `json:"name"`
	Tuning *config.Tuning `json:"tuning"`
}

// EnabledResponse reports the pipeline's processing state.
type EnabledResponse struct {
	Enabled bool `json:"enabled"`
}
