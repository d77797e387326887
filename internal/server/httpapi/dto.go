package httpapi

import (
	"time"

	"github.com/ddanilovs/inform/internal/server/models"
)

// userDTO is the identity shape embedded in auth responses.
type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// userAdminDTO is the management view of an identity. The password hash is
// never serialized.
type userAdminDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"isActive"`
	PasswordChanged bool      `json:"passwordChanged"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toUserAdminDTO(u *models.User) userAdminDTO {
	return userAdminDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		IsActive:        u.IsActive,
		PasswordChanged: u.PasswordChanged,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type toolDTO struct {
	ID         string    `json:"id"`
	ToolNumber string    `json:"toolNumber"`
	ToolID     string    `json:"toolId"`
	Client     string    `json:"client"`
	BayArea    string    `json:"bayArea"`
	Modules    []string  `json:"modules"`
	CreatedBy  string    `json:"createdBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toToolDTO(t *models.Tool) toolDTO {
	return toolDTO{
		ID:         t.ID,
		ToolNumber: t.ToolNumber,
		ToolID:     t.ToolID,
		Client:     t.Client,
		BayArea:    t.BayArea,
		Modules:    t.Modules,
		CreatedBy:  t.CreatedByID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

type informDTO struct {
	ID           string             `json:"id"`
	Tool         models.ToolSummary `json:"tool"`
	Module       string             `json:"module"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	Images       []string           `json:"images"`
	Status       string             `json:"status"`
	CreatedBy    models.UserSummary `json:"createdBy"`
	LastEditedBy models.UserSummary `json:"lastEditedBy"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	// IsAdmin tells the client whether to render admin-only controls; set on
	// single-record responses.
	IsAdmin *bool `json:"isAdmin,omitempty"`
}

func toInformDTO(v *models.InformView) informDTO {
	return informDTO{
		ID:           v.ID,
		Tool:         v.Tool,
		Module:       v.Module,
		Title:        v.Title,
		Content:      v.Content,
		Images:       v.Images,
		Status:       v.Status,
		CreatedBy:    v.CreatedBy,
		LastEditedBy: v.LastEditedBy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toInformDTOShaped(v *models.InformView, isAdmin bool) informDTO {
	dto := toInformDTO(v)
	dto.IsAdmin = &isAdmin
	return dto
}
