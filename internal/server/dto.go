package server

import "github.com/tailquest/tailquest/internal/progress"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=Beginner Intermediate Expert"`
}

type startLevelRequest struct {
	Username string `json:"username" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=Beginner Intermediate Expert"`
	Level    int    `json:"level" validate:"required,min=1"`
}

type finishLevelRequest struct {
	Username string `json:"username" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=Beginner Intermediate Expert"`
	Level    int    `json:"level" validate:"required,min=1"`
	// Pointer so that a reported zero is distinguishable from a missing field.
	Errors *int `json:"errors" validate:"required,min=0"`
}

type levelBackRequest struct {
	Username string `json:"username" validate:"required"`
}

type finishLevelResponse struct {
	LevelData     progress.LevelAttempt `json:"levelData"`
	UserLevel     int                   `json:"userLevel"`
	HardestErrors int                   `json:"hardestErrors"`
}

type levelBackResponse struct {
	UserLevel int `json:"userLevel"`
}

type errorResponse struct {
	Error string `json:"error"`
}
