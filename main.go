package main

import (
	"log"
	"net/http"
	"os"

	"learnhub-backend/config"
	"learnhub-backend/controllers/authentication"
	"learnhub-backend/controllers/course"
	"learnhub-backend/controllers/httpCors"
	"learnhub-backend/controllers/recommendations"
	"learnhub-backend/models/courses"
	"learnhub-backend/models/users"
	"learnhub-backend/services/recommend"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := config.InitDB(); err != nil {
		log.Fatalf("Database initialization error: %v", err)
	}

	err := config.DB.AutoMigrate(
		&users.User{},
		&users.Interest{},
		&users.SearchRecord{},
		&users.SearchLog{},
		&courses.Course{},
		&courses.Lesson{},
		&courses.Tag{},
		&courses.Language{},
		&courses.Enrollment{},
		&courses.Completion{},
	)
	if err != nil {
		log.Fatalf("Database migration error: %v", err)
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		log.Fatalf("Error getting database connection: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Database ping error: %v", err)
	}
	log.Println("Database connection established")

	engine := &recommend.Engine{
		Catalog: &courses.CatalogStore{DB: config.DB},
		Users:   &users.Store{DB: config.DB},
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/login/google", authentication.HandleGoogleLogin)
	mux.HandleFunc("/callback/google", authentication.HandleGoogleCallback)

	mux.HandleFunc("/register", authentication.Register)
	mux.HandleFunc("/login", authentication.Login)
	mux.HandleFunc("/profile", authentication.GetProfile)
	mux.HandleFunc("/profile/update", authentication.UpdateProfile)
	mux.HandleFunc("/logout", authentication.Logout)

	mux.HandleFunc("/courses", course.ListCourses)
	mux.HandleFunc("/courses/get", course.GetCourse)
	mux.HandleFunc("/courses/create", course.CreateCourse)
	mux.HandleFunc("/courses/search", course.SearchCourses)
	mux.HandleFunc("/courses/enroll", course.EnrollCourse)
	mux.HandleFunc("/courses/complete", course.CompleteCourse)
	mux.HandleFunc("/courses/my", course.ListMyCourses)
	mux.HandleFunc("/courses/thumbnail", course.UploadThumbnail)

	mux.HandleFunc("/recommendations", func(w http.ResponseWriter, r *http.Request) {
		recommendations.GetRecommendations(w, r, engine)
	})

	handler := httpCors.CorsSettings().Handler(mux)

	log.Printf("Server listening on port %s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
