package models

import "time"

// Vector is a raw accelerometer reading. It does not need to be normalized.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Upright is the orientation of a bottle standing on a level surface.
var Upright = Vector{X: 0, Y: 0, Z: 1}

// Sample is a single weight + orientation reading fed to the engine.
type Sample struct {
	WeightG     float64 `json:"weight_g"`
	Orientation Vector  `json:"orientation"`
}

// BottleState is the snapshot of the bottle exposed to the front end.
type BottleState struct {
	WeightG             float64    `json:"weight_g"`
	TareOffsetG         float64    `json:"tare_offset_g"`
	Orientation         Vector     `json:"orientation"`
	TiltDeg             float64    `json:"tilt_deg"`
	DrinkLevelG         float64    `json:"drink_level_g"`
	DrinkLevelPercent   float64    `json:"drink_level_percent"`
	Empty               bool       `json:"empty"`
	DailyConsumedML     float64    `json:"daily_consumed_ml"`
	DailyGoalML         float64    `json:"daily_goal_ml"`
	DailyProgress       float64    `json:"daily_progress_percent"`
	LastDrinkAt         time.Time  `json:"last_drink_at"`
	LastVeryEmptyAt     *time.Time `json:"last_very_empty_at,omitempty"`
	LastRecalibrationAt *time.Time `json:"last_recalibration_at,omitempty"`
}
