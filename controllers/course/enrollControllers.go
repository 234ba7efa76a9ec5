package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"learnhub-backend/config"
	"learnhub-backend/controllers/authentication"
	"learnhub-backend/models/courses"
)

type enrollInput struct {
	CourseID uint `json:"courseId"`
}

// EnrollCourse enrolls the caller in a course and bumps the course's
// enrolled-students counter (the popularity signal).
func EnrollCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	var input enrollInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CourseID == 0 {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var course courses.Course
	err = config.DB.First(&course, input.CourseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load course", http.StatusInternalServerError)
		return
	}

	var existing courses.Enrollment
	if err := config.DB.Where("user_id = ? AND course_id = ?", claims.UserID, input.CourseID).First(&existing).Error; err == nil {
		http.Error(w, "Already enrolled", http.StatusConflict)
		return
	}

	enrollment := courses.Enrollment{
		UserID:     claims.UserID,
		CourseID:   input.CourseID,
		EnrolledAt: time.Now().UTC(),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}
		return tx.Model(&courses.Course{}).Where("id = ?", input.CourseID).
			UpdateColumn("enrolled_students", gorm.Expr("enrolled_students + 1")).Error
	})
	if err != nil {
		http.Error(w, "Failed to enroll", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(enrollment)
}

// CompleteCourse records a completion for an enrolled caller
func CompleteCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	var input enrollInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.CourseID == 0 {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	var enrollment courses.Enrollment
	err = config.DB.Where("user_id = ? AND course_id = ?", claims.UserID, input.CourseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Not enrolled in this course", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load enrollment", http.StatusInternalServerError)
		return
	}

	var existing courses.Completion
	if err := config.DB.Where("user_id = ? AND course_id = ?", claims.UserID, input.CourseID).First(&existing).Error; err == nil {
		http.Error(w, "Already completed", http.StatusConflict)
		return
	}

	completion := courses.Completion{
		UserID:      claims.UserID,
		CourseID:    input.CourseID,
		CompletedAt: time.Now().UTC(),
	}
	if err := config.DB.Create(&completion).Error; err != nil {
		http.Error(w, "Failed to record completion", http.StatusInternalServerError)
		return
	}

	if err := config.DB.Model(&enrollment).UpdateColumn("progress", 100.0).Error; err != nil {
		http.Error(w, "Failed to update progress", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(completion)
}

// ListMyCourses returns the caller's enrollments and completions
func ListMyCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	var enrollments []courses.Enrollment
	if err := config.DB.Preload("Course").Preload("Course.Tags").Preload("Course.Languages").
		Where("user_id = ?", claims.UserID).Find(&enrollments).Error; err != nil {
		http.Error(w, "Failed to list enrollments", http.StatusInternalServerError)
		return
	}

	var completions []courses.Completion
	if err := config.DB.Preload("Course").Preload("Course.Tags").Preload("Course.Languages").
		Where("user_id = ?", claims.UserID).Find(&completions).Error; err != nil {
		http.Error(w, "Failed to list completions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"enrollments": enrollments,
		"completions": completions,
	})
}
