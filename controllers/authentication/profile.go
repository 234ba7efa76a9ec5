package authentication

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"learnhub-backend/config"
	"learnhub-backend/models/courses"
	"learnhub-backend/models/users"
)

type profileUpdate struct {
	Name           string   `json:"name"`
	Interests      []string `json:"interests"`
	KnownLanguages []string `json:"knownLanguages"`
}

// UpdateProfile replaces the caller's interests and known languages with the
// submitted sets. Vocabulary rows are created on first use.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	var user users.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var update profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	interests := make([]users.Interest, 0, len(update.Interests))
	for _, name := range update.Interests {
		if name == "" {
			continue
		}
		var interest users.Interest
		if err := config.DB.Where("name = ?", name).First(&interest).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Error updating interests", http.StatusInternalServerError)
				return
			}
			interest = users.Interest{Name: name}
			if err := config.DB.Create(&interest).Error; err != nil {
				http.Error(w, "Error updating interests", http.StatusInternalServerError)
				return
			}
		}
		interests = append(interests, interest)
	}

	languages := make([]courses.Language, 0, len(update.KnownLanguages))
	for _, name := range update.KnownLanguages {
		if name == "" {
			continue
		}
		var language courses.Language
		if err := config.DB.Where("name = ?", name).First(&language).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Error updating known languages", http.StatusInternalServerError)
				return
			}
			language = courses.Language{Name: name}
			if err := config.DB.Create(&language).Error; err != nil {
				http.Error(w, "Error updating known languages", http.StatusInternalServerError)
				return
			}
		}
		languages = append(languages, language)
	}

	if err := config.DB.Model(&user).Association("Interests").Replace(interests); err != nil {
		http.Error(w, "Error updating interests", http.StatusInternalServerError)
		return
	}
	if err := config.DB.Model(&user).Association("KnownLanguages").Replace(languages); err != nil {
		http.Error(w, "Error updating known languages", http.StatusInternalServerError)
		return
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if err := config.DB.Save(&user).Error; err != nil {
		http.Error(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	user.Interests = interests
	user.KnownLanguages = languages

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
