package course

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"learnhub-backend/config"
	"learnhub-backend/controllers/authentication"
	"learnhub-backend/models/courses"
	"learnhub-backend/models/users"
)

// UploadThumbnail uploads a course thumbnail to Google Drive and stores the
// shared link on the course. Requires a linked Google account.
func UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := authentication.ValidateToken(r)
	if err != nil {
		http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
		return
	}

	courseID, err := strconv.ParseUint(r.FormValue("course_id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	var course courses.Course
	if err := config.DB.First(&course, uint(courseID)).Error; err != nil {
		http.Error(w, "Course not found", http.StatusNotFound)
		return
	}
	if course.InstructorID != claims.UserID {
		http.Error(w, "Only the course instructor can change the thumbnail", http.StatusForbidden)
		return
	}

	file, header, err := r.FormFile("thumbnail")
	if err != nil {
		http.Error(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	var user users.User
	if err := config.DB.First(&user, claims.UserID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if user.GoogleToken == "" {
		http.Error(w, "No Google OAuth token found for the user", http.StatusForbidden)
		return
	}

	folderID := os.Getenv("GOOGLE_DRIVE_FOLDER_ID")

	webViewLink, err := uploadToGoogleDrive(r.Context(), file, header.Filename, user.GoogleToken, folderID)
	if err != nil {
		http.Error(w, "Failed to upload thumbnail: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := config.DB.Model(&course).UpdateColumn("thumbnail_url", webViewLink).Error; err != nil {
		http.Error(w, "Failed to save thumbnail link", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"courseId":     course.ID,
		"thumbnailUrl": webViewLink,
	})
}

func uploadToGoogleDrive(ctx context.Context, file multipart.File, fileName, accessToken, folderID string) (string, error) {
	token := &oauth2.Token{AccessToken: accessToken}
	tokenSource := authentication.GoogleOauthConfig.TokenSource(ctx, token)

	service, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return "", fmt.Errorf("failed to create Drive service: %w", err)
	}

	driveFile := &drive.File{Name: fileName}
	if folderID != "" {
		driveFile.Parents = []string{folderID}
	}

	uploaded, err := service.Files.Create(driveFile).Media(file).Fields("id", "webViewLink").Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return uploaded.WebViewLink, nil
}
