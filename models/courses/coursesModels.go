package courses

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	Title            string     `json:"title" gorm:"not null"`
	Description      string     `json:"description" gorm:"type:text"`
	Category         string     `json:"category" gorm:"index"`
	Tags             []Tag      `json:"tags" gorm:"many2many:course_tags"`
	Languages        []Language `json:"languages" gorm:"many2many:course_languages"`
	Rating           float64    `json:"rating" gorm:"default:0"`
	TotalRatings     int        `json:"totalRatings" gorm:"default:0"`
	EnrolledStudents int        `json:"enrolledStudents" gorm:"default:0"`
	Price            float64    `json:"price"`
	ThumbnailURL     string     `json:"thumbnailUrl"`
	InstructorID     uint       `json:"instructorId" gorm:"not null"`
	Lessons          []Lesson   `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"-"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

type Lesson struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"courseId" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Content   string    `json:"content" gorm:"type:text"`
	VideoURL  string    `json:"videoUrl"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

type Tag struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;not null"`
}

type Language struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"unique;not null"`
}

type Enrollment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"userId" gorm:"index;not null;uniqueIndex:idx_user_course_enrollment"`
	CourseID   uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_user_course_enrollment"`
	Course     Course    `json:"course" gorm:"foreignKey:CourseID"`
	Progress   float64   `json:"progress" gorm:"default:0"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

type Completion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"userId" gorm:"index;not null;uniqueIndex:idx_user_course_completion"`
	CourseID    uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_user_course_completion"`
	Course      Course    `json:"course" gorm:"foreignKey:CourseID"`
	CompletedAt time.Time `json:"completedAt"`
}
