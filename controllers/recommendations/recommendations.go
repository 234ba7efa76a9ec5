package recommendations

import (
	"encoding/json"
	"log"
	"net/http"

	"learnhub-backend/controllers/authentication"
	"learnhub-backend/models/courses"
	"learnhub-backend/services/recommend"
)

type recommendationsResponse struct {
	Recommendations      []courses.Course `json:"recommendations"`
	TotalRecommendations int              `json:"totalRecommendations"`
}

// GetRecommendations serves the personalized course list. The bearer token
// is optional: a missing or invalid token (or a token for a user that no
// longer exists) degrades to anonymous, popularity-only recommendations
// instead of failing the request. Only a store failure is an error.
func GetRecommendations(w http.ResponseWriter, r *http.Request, engine *recommend.Engine) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var userID uint
	authenticated := false
	if claims, err := authentication.ValidateToken(r); err == nil {
		userID = claims.UserID
		authenticated = true
	}

	ctx, err := engine.Resolve(userID, authenticated)
	if err != nil {
		log.Printf("Error resolving recommendation context: %v", err)
		http.Error(w, "Failed to load recommendations", http.StatusInternalServerError)
		return
	}

	recs, err := engine.Recommend(ctx)
	if err != nil {
		log.Printf("Error building recommendations: %v", err)
		http.Error(w, "Failed to load recommendations", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []courses.Course{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recommendationsResponse{
		Recommendations:      recs,
		TotalRecommendations: len(recs),
	})
}
