package dto

import "github.com/lumvida/lumvida-backend/internal/models"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ReportListResponse pairs the filtered records with their aggregate
// summary so the dashboard renders both from one round trip.
type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Stats   models.Stats    `json:"stats"`
}
