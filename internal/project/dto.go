package project

import (
	"strings"

	"github.com/wirasatya/business-management/internal"
)

type CreateProjectDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	TeamIDs     []string `json:"team_ids,omitempty"`
}

func (d CreateProjectDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("project name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateProjectDTO uses pointers so absent fields are left untouched.
type UpdateProjectDTO struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *string  `json:"status,omitempty"`
	TeamIDs     []string `json:"team_ids,omitempty"`
}

func (d UpdateProjectDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationError("project name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && *d.Status != StatusActive && *d.Status != StatusArchived {
		return internal.NewValidationError("status must be active or archived", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ProjectListResponse struct {
	Projects []*Project `json:"projects"`
}
