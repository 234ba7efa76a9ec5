package recommendations

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"gorm.io/gorm"

	"learnhub-backend/controllers/authentication"
	"learnhub-backend/models/courses"
	"learnhub-backend/models/users"
	"learnhub-backend/services/recommend"
)

type stubCatalog struct {
	catalog []courses.Course
	err     error
}

func (s *stubCatalog) FindCoursesByInterest(interests []string, excludeIDs []uint, limit int) ([]courses.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	set := make(map[string]struct{}, len(interests))
	for _, i := range interests {
		set[i] = struct{}{}
	}
	var out []courses.Course
	for _, c := range s.remaining(excludeIDs) {
		if _, ok := set[c.Category]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubCatalog) FindCoursesByLanguage(languages []string, excludeIDs []uint, limit int) ([]courses.Course, error) {
	return nil, s.err
}

func (s *stubCatalog) FindCoursesBySearchTerms(terms []string, excludeIDs []uint, limit int) ([]courses.Course, error) {
	return nil, s.err
}

func (s *stubCatalog) FindMostPopularCourses(excludeIDs []uint, limit int) ([]courses.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := s.remaining(excludeIDs)
	sort.Slice(out, func(i, j int) bool { return out[i].EnrolledStudents > out[j].EnrolledStudents })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubCatalog) remaining(excludeIDs []uint) []courses.Course {
	excluded := make(map[uint]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}
	var out []courses.Course
	for _, c := range s.catalog {
		if _, ok := excluded[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}

type stubUsers struct {
	users map[uint]*users.User
}

func (s *stubUsers) GetUserByID(id uint) (*users.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func signToken(t *testing.T, userID uint) string {
	t.Helper()
	claims := &authentication.Claims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(authentication.JwtKey)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func serve(engine *recommend.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	GetRecommendations(w, req, engine)
	return w
}

func testCatalog() []courses.Course {
	return []courses.Course{
		{ID: 1, Title: "DS", Category: "Data Science", Rating: 4.9, EnrolledStudents: 10},
		{ID: 2, Title: "Web", Category: "Web", Rating: 4.0, EnrolledStudents: 500},
		{ID: 3, Title: "Cloud", Category: "Cloud", Rating: 4.5, EnrolledStudents: 300},
	}
}

func TestAnonymousRequestServesPopular(t *testing.T) {
	engine := &recommend.Engine{Catalog: &stubCatalog{catalog: testCatalog()}, Users: &stubUsers{}}

	w := serve(engine, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.TotalRecommendations != 3 || len(resp.Recommendations) != 3 {
		t.Fatalf("got %d/%d recommendations, want 3", len(resp.Recommendations), resp.TotalRecommendations)
	}
	if resp.Recommendations[0].ID != 2 {
		t.Errorf("first course = %d, want most popular (2)", resp.Recommendations[0].ID)
	}
}

func TestInvalidTokenDegradesToAnonymous(t *testing.T) {
	engine := &recommend.Engine{Catalog: &stubCatalog{catalog: testCatalog()}, Users: &stubUsers{}}

	w := serve(engine, "Bearer not-a-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded)", w.Code)
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Recommendations[0].ID != 2 {
		t.Errorf("first course = %d, want popularity order", resp.Recommendations[0].ID)
	}
}

func TestTokenForMissingUserDegrades(t *testing.T) {
	engine := &recommend.Engine{Catalog: &stubCatalog{catalog: testCatalog()}, Users: &stubUsers{}}

	w := serve(engine, "Bearer "+signToken(t, 99))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (degraded)", w.Code)
	}
}

func TestPersonalizedRequest(t *testing.T) {
	user := &users.User{ID: 7, Interests: []users.Interest{{Name: "Data Science"}}}
	engine := &recommend.Engine{
		Catalog: &stubCatalog{catalog: testCatalog()},
		Users:   &stubUsers{users: map[uint]*users.User{7: user}},
	}

	w := serve(engine, "Bearer "+signToken(t, 7))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp recommendationsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Recommendations[0].ID != 1 {
		t.Errorf("first course = %d, want interest match (1)", resp.Recommendations[0].ID)
	}
}

func TestEmptyCatalogIsValidResponse(t *testing.T) {
	engine := &recommend.Engine{Catalog: &stubCatalog{}, Users: &stubUsers{}}

	w := serve(engine, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	var resp struct {
		Recommendations      []courses.Course `json:"recommendations"`
		TotalRecommendations int              `json:"totalRecommendations"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Recommendations == nil {
		t.Error("recommendations must serialize as [], not null")
	}
	if resp.TotalRecommendations != 0 {
		t.Errorf("totalRecommendations = %d, want 0", resp.TotalRecommendations)
	}
}

func TestStoreFailureIsServerError(t *testing.T) {
	engine := &recommend.Engine{
		Catalog: &stubCatalog{err: errors.New("connection refused")},
		Users:   &stubUsers{},
	}

	w := serve(engine, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 on store failure", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	engine := &recommend.Engine{Catalog: &stubCatalog{}, Users: &stubUsers{}}
	req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
	w := httptest.NewRecorder()
	GetRecommendations(w, req, engine)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
