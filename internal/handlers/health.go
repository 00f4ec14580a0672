package handlers

import (
	"context"
	"time"

	"github.com/gdg-garage/campus-events-api/internal/apperr"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

type HealthView struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type HealthResponse struct {
	Body Envelope[HealthView]
}

func (h *HealthHandler) HandleHealth(ctx context.Context, input *struct{}) (*HealthResponse, error) {
	sqlDB, err := h.db.DB()
	if err != nil {
		return nil, httpError(ctx, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, httpError(ctx, apperr.Unavailable(err, "database unreachable"))
	}
	return &HealthResponse{Body: ok(HealthView{Status: "ok", Database: "ok"}, "")}, nil
}
