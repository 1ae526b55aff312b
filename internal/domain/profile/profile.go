// Package profile holds the role-typed identity records: the profile row
// that tags a user as student or company, and the role records carrying
// the editable attributes for each side of the marketplace.
package profile

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeStudent Type = "student"
	TypeCompany Type = "company"
)

func (t Type) Valid() bool {
	return t == TypeStudent || t == TypeCompany
}

// Profile is the root record. At most one exists per user id, and its
// type never changes after creation.
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	CreatedAt time.Time
}

type StudentRecord struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	FullName   string
	University string
	Department string
	Bio        string
	Skills     []string
	AvatarURL  string
	Projects   []Project
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

type CompanyRecord struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Industry    string
	Location    string
	Description string
	LogoURL     string
	Website     string
	Size        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View is the resolved projection the orchestrator routes on. The profile
// row is authoritative for Type; RoleID is the matching student or company
// record id and may be Nil when the role record is missing (a tolerated
// partial-provisioning state).
type View struct {
	ProfileID uuid.UUID
	UserID    uuid.UUID
	Type      Type
	RoleID    uuid.UUID
}

// HasRoleRecord reports whether the role-specific record was found
// alongside the profile row.
func (v View) HasRoleRecord() bool {
	return v.RoleID != uuid.Nil
}
