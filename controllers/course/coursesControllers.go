package course

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"learnhub-backend/config"
	"learnhub-backend/controllers/authentication"
	"learnhub-backend/models/courses"
)

// ListCourses returns the whole catalog
func ListCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var catalog []courses.Course
	if err := config.DB.Preload("Tags").Preload("Languages").Find(&catalog).Error; err != nil {
		http.Error(w, "Failed to list courses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(catalog)
}

// GetCourse returns a single course with its lessons
func GetCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	var course courses.Course
	err = config.DB.Preload("Tags").Preload("Languages").Preload("Lessons").First(&course, uint(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to load course", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(course)
}

type createCourseInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Languages   []string `json:"languages"`
	Price       float64  `json:"price"`
}

// CreateCourse creates a catalog entry owned by the calling instructor
func CreateCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}
	if claims.Role != "instructor" {
		http.Error(w, "Only instructors can create courses", http.StatusForbidden)
		return
	}

	var input createCourseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	course := courses.Course{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Price:        input.Price,
		InstructorID: claims.UserID,
	}

	for _, name := range input.Tags {
		if name == "" {
			continue
		}
		var tag courses.Tag
		if err := config.DB.Where("name = ?", name).FirstOrCreate(&tag, courses.Tag{Name: name}).Error; err != nil {
			http.Error(w, "Failed to create course tags", http.StatusInternalServerError)
			return
		}
		course.Tags = append(course.Tags, tag)
	}

	for _, name := range input.Languages {
		if name == "" {
			continue
		}
		var language courses.Language
		if err := config.DB.Where("name = ?", name).FirstOrCreate(&language, courses.Language{Name: name}).Error; err != nil {
			http.Error(w, "Failed to create course languages", http.StatusInternalServerError)
			return
		}
		course.Languages = append(course.Languages, language)
	}

	if err := config.DB.Create(&course).Error; err != nil {
		http.Error(w, "Failed to create course", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(course)
}
