package users

import "time"

// SearchHistoryLimit is how many search records are retained per user.
// Distinct from the window the recommendation engine reads (it looks at far
// fewer); the two numbers are unrelated.
const SearchHistoryLimit = 50

// SearchRecord is one entry in a user's personal search history.
type SearchRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"-" gorm:"index;not null"`
	Query     string    `json:"query" gorm:"not null"`
	CreatedAt time.Time `json:"timestamp"`
}

// SearchLog is the global append-only search log. UserID is nil for
// anonymous searches.
type SearchLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"index"`
	Query     string    `gorm:"not null"`
	Results   int
	CreatedAt time.Time
}
