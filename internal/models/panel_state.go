package models

import "time"

// PanelState is what an operator sees: the rendered camera URL, the raw
// backend bodies and the simulator status.
type PanelState struct {
	VideoFeed    string     `json:"video_feed,omitempty"`
	Status       string     `json:"status"`
	JobResult    string     `json:"job_result"`
	Flow         string     `json:"flow"`
	Watermark    *time.Time `json:"watermark,omitempty"`
	SimulationHz float64    `json:"simulation_hz"`
	Simulating   bool       `json:"simulating"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
