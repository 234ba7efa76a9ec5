package course

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"learnhub-backend/config"
	"learnhub-backend/controllers/authentication"
	"learnhub-backend/models/courses"
	"learnhub-backend/models/users"
)

// SearchCourses searches the catalog by a free-text query. For authenticated
// callers the query is also appended to their search history (which later
// feeds their recommendations) and to the global search log; both writes are
// best-effort and never fail the search itself.
func SearchCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "Missing query parameter q", http.StatusBadRequest)
		return
	}

	catalog := courses.CatalogStore{DB: config.DB}
	found, err := catalog.FindCoursesBySearchTerms([]string{query}, nil, 50)
	if err != nil {
		http.Error(w, "Failed to search courses", http.StatusInternalServerError)
		return
	}

	var userID *uint
	if claims, err := authentication.ValidateToken(r); err == nil {
		userID = &claims.UserID
		logUserSearch(claims.UserID, query)
	}

	entry := users.SearchLog{UserID: userID, Query: query, Results: len(found), CreatedAt: time.Now().UTC()}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Printf("Error writing global search log: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"courses": found,
		"total":   len(found),
	})
}

// logUserSearch appends one record to the user's history and prunes it to
// the newest users.SearchHistoryLimit entries.
func logUserSearch(userID uint, query string) {
	record := users.SearchRecord{UserID: userID, Query: query, CreatedAt: time.Now().UTC()}
	if err := config.DB.Create(&record).Error; err != nil {
		log.Printf("Error writing search history for user %d: %v", userID, err)
		return
	}

	var stale []users.SearchRecord
	err := config.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(users.SearchHistoryLimit).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error pruning search history for user %d: %v", userID, err)
		return
	}
	if len(stale) == 0 {
		return
	}

	ids := make([]uint, 0, len(stale))
	for _, s := range stale {
		ids = append(ids, s.ID)
	}
	if err := config.DB.Delete(&users.SearchRecord{}, ids).Error; err != nil {
		log.Printf("Error pruning search history for user %d: %v", userID, err)
	}
}
