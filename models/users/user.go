package users

import (
	"time"

	"gorm.io/gorm"

	"learnhub-backend/models/courses"
)

type User struct {
	ID             uint                 `json:"id" gorm:"primaryKey"`
	Name           string               `json:"name"`
	Email          string               `json:"email" gorm:"unique;not null"`
	Password       string               `json:"-"`
	Role           string               `json:"role" gorm:"not null;default:user"`
	Provider       string               `json:"provider" gorm:"default:local"`
	Interests      []Interest           `json:"interests" gorm:"many2many:user_interests"`
	KnownLanguages []courses.Language   `json:"knownLanguages" gorm:"many2many:user_languages"`
	SearchHistory  []SearchRecord       `json:"searchHistory,omitempty" gorm:"foreignKey:UserID"`
	Enrollments    []courses.Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
	Completions    []courses.Completion `json:"completions,omitempty" gorm:"foreignKey:UserID"`
	AccessToken    string               `json:"-"`
	GoogleToken    string               `json:"-"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"-"`
	DeletedAt      gorm.DeletedAt       `json:"-" gorm:"index"`
}

type Interest struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;not null"`
}

// Store reads user profiles for the recommendation engine and the profile
// endpoints. Search history comes back newest-first, capped at the retention
// window.
type Store struct {
	DB *gorm.DB
}

func (s *Store) GetUserByID(id uint) (*User, error) {
	var user User
	err := s.DB.
		Preload("Interests").
		Preload("KnownLanguages").
		Preload("SearchHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(SearchHistoryLimit)
		}).
		Preload("Enrollments").
		Preload("Completions").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
