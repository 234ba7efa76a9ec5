package authentication

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"learnhub-backend/config"
	"learnhub-backend/models/users"
)

var GoogleOauthConfig = &oauth2.Config{
	RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
	ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
	Scopes: []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
		"https://www.googleapis.com/auth/drive.file",
	},
	Endpoint: google.Endpoint,
}

type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleGoogleLogin initiates Google OAuth login
func HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := "google"
	url := GoogleOauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// HandleGoogleCallback processes the OAuth callback, upserts the user and
// issues the same JWT the password flow does
func HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := "google"
	if r.FormValue("state") != state {
		log.Println("Invalid OAuth state")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	token, err := GoogleOauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Printf("Error exchanging token: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	info, err := fetchGoogleUserInfo(token.AccessToken)
	if err != nil {
		log.Printf("Error fetching user info: %v", err)
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	var user users.User
	err = config.DB.Where("email = ? AND provider = ?", info.Email, "google").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = users.User{
			Name:     info.Name,
			Email:    info.Email,
			Role:     "user",
			Provider: "google",
		}
		if err := config.DB.Create(&user).Error; err != nil {
			http.Error(w, "Error creating user", http.StatusInternalServerError)
			return
		}
	} else if err != nil {
		http.Error(w, "Error loading user", http.StatusInternalServerError)
		return
	}

	jwtString, err := generateToken(&user)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	user.AccessToken = jwtString
	user.GoogleToken = token.AccessToken
	if err := config.DB.Save(&user).Error; err != nil {
		http.Error(w, "Error saving user", http.StatusInternalServerError)
		return
	}

	session, _ := config.Store.Get(r, "session-name")
	session.Values["userID"] = user.ID
	if err := session.Save(r, w); err != nil {
		log.Printf("Error saving session: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":  user,
		"token": jwtString,
	})
}

func fetchGoogleUserInfo(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.New("no email in Google user info")
	}
	return &info, nil
}
