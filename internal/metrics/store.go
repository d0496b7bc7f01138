package metrics

import (
	"database/sql"
	"sync"

	"github.com/charmbracelet/log"
)

// store keeps the job counters shown on /counters in the metrics table.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

func New(db *sql.DB) MetricsStore {
	return &store{db: db}
}

// Increment bumps key by one.
func (s *store) Increment(key string) {
	s.Add(key, 1)
}

// Add bumps key by n, creating it on first use. Failures are logged only;
// a lost counter never fails the job that produced it.
func (s *store) Add(key string, n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`INSERT INTO metrics (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = value + excluded.value`, key, n); err != nil {
		log.Error("Failed to update counter", "error", err, "key", key, "delta", n)
		return
	}
	log.Debug("Updated counter", "key", key, "delta", n)
}

// GetAll returns every counter by key.
func (s *store) GetAll() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT key, value FROM metrics ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counters := make(map[string]int)
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		counters[key] = value
	}
	return counters, rows.Err()
}
