package domain

import (
	"time"
)

// ServiceType — позиция каталога услуг автосервиса (замена масла, диагностика и т.п.).
type ServiceType struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Features      []string  `json:"features"`
	EstimatedTime int       `json:"estimated_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateServiceTypeDTO struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	EstimatedTime int      `json:"estimated_time" binding:"min=0"`
}

type UpdateServiceTypeDTO struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Features      *[]string `json:"features"`
	EstimatedTime *int      `json:"estimated_time" binding:"omitempty,min=0"`
}
