package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Role values form a closed set. The legacy "user" value that older clients
// still send is folded into job_seeker at every write boundary.
const (
	RoleJobSeeker   = "job_seeker"
	RoleJobProvider = "job_provider"
	RoleAdmin       = "admin"
)

// NormalizeRole maps an inbound role string onto the closed role set.
// Unknown or legacy values become job_seeker.
func NormalizeRole(role string) string {
	switch role {
	case RoleAdmin, RoleJobProvider, RoleJobSeeker:
		return role
	default:
		return RoleJobSeeker
	}
}

// ExperienceEntry is a single professional experience record. Both the AI
// extractor and manual profile edits produce these; Title is accepted as an
// inbound alias for Role and folded in by NormalizeExperience.
type ExperienceEntry struct {
	Role        string `json:"role,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// NormalizeExperience resolves the role/title alias so readers only ever see
// Role populated.
func NormalizeExperience(entries []ExperienceEntry) []ExperienceEntry {
	out := make([]ExperienceEntry, 0, len(entries))
	for _, e := range entries {
		if e.Role == "" {
			e.Role = e.Title
		}
		e.Title = ""
		out = append(out, e)
	}
	return out
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Email    string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	// Stored and compared as plain text. Explicit product decision carried
	// over from the system this replaces; do not hash without a data
	// migration plan.
	Password           string                                  `gorm:"not null" json:"-"`
	Role               string                                  `gorm:"size:20;default:'job_seeker'" json:"role"`
	Skills             datatypes.JSONSlice[string]             `json:"skills"`
	Experience         datatypes.JSONSlice[ExperienceEntry]    `json:"experience"`
	ResumeText         string                                  `gorm:"type:text" json:"resumeText,omitempty"`
	ResumeOriginalName string                                  `gorm:"size:255" json:"resumeOriginalName,omitempty"`
	ResumePath         string                                  `gorm:"size:512" json:"resumePath,omitempty"`
	Location           string                                  `gorm:"size:255" json:"location,omitempty"`
	Phone              string                                  `gorm:"size:50" json:"phone,omitempty"`
	Bio                string                                  `gorm:"type:text" json:"bio,omitempty"`
	ProfilePicture     string                                  `gorm:"size:512" json:"profilePicture,omitempty"`
	IsProfileComplete  bool                                    `gorm:"default:false" json:"isProfileComplete"`
	CreatedAt          time.Time                               `json:"createdAt"`
	UpdatedAt          time.Time                               `json:"updatedAt"`
}
