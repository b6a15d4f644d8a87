package handler

import (
	"vctbuilder/internal/project/models"
	vcthandler "vctbuilder/internal/vct/handler"
)

type ProjectsResponse struct {
	Projects []models.Summary `json:"projects"`
}

type LoadResponse struct {
	Loaded bool                     `json:"loaded"`
	State  vcthandler.StateResponse `json:"state"`
}

type ImportResponse struct {
	State        vcthandler.StateResponse `json:"state"`
	RulesApplied []string                 `json:"rulesApplied"`
}
