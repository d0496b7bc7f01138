package season

import (
	"database/sql"
	"sync"
)

type store struct {
	db *sql.DB
	mu sync.Mutex
}

// CreateInput is the payload for opening a new season.
type CreateInput struct {
	Name      string `json:"name" validate:"required,max=80"`
	StartDate string `json:"start_date"`
}
