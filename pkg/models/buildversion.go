package models

import (
	"time"
)

// BuildVersionInfo is the version of a gateway binary
type BuildVersionInfo struct {
	Major      string    `json:"Major,omitempty" example:"0"`
	Minor      string    `json:"Minor,omitempty" example:"1"`
	GitVersion string    `json:"GitVersion" example:"v0.1.4"`
	GitCommit  string    `json:"GitCommit" example:"1b4c37e9e7cbb0672d7b7a2f1199b391f1c257b8"`
	BuildDate  time.Time `json:"BuildDate" example:"2024-02-07T19:40:11Z"`
	GOOS       string    `json:"GOOS" example:"linux"`
	GOARCH     string    `json:"GOARCH" example:"amd64"`
}
