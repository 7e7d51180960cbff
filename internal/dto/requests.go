package dto

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StatusUpdateRequest changes a report's estado.
type StatusUpdateRequest struct {
	Estado string `json:"estado" binding:"required"`
}

// CreateReportRequest is the citizen submission body.
type CreateReportRequest struct {
	Categoria  string   `json:"categoria" binding:"required"`
	Direccion  string   `json:"direccion" binding:"required"`
	Comentario string   `json:"comentario"`
	Fecha      string   `json:"fecha"`
	Latitud    *float64 `json:"latitud"`
	Longitud   *float64 `json:"longitud"`
}
