package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"category_name"`
	CreatedAt time.Time `json:"created_at"`
}
