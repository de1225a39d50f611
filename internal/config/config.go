package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig collects everything the server needs from the environment.
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	SessionSecret      string
	GinMode            string
	UploadDir          string
	UploadURLPath      string
	SuperRootUserName  string
	SuperRootPassword  string
	SiteBaseURL        string
	MastodonBaseURL    string
	MastodonToken      string
	BlueskyPDSURL      string
	BlueskyHandle      string
	BlueskyAppPassword string
}

// Load reads the application config from environment variables, filling
// in safe defaults for anything missing.
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "byteboard.db"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "byteboard-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "web/static/uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/static/uploads"
	}

	siteBaseURL := strings.TrimSpace(os.Getenv("SITE_BASE_URL"))
	if siteBaseURL == "" {
		siteBaseURL = "https://blog.byteboard.dev"
	}

	blueskyPDSURL := strings.TrimSpace(os.Getenv("BLUESKY_PDS_URL"))
	if blueskyPDSURL == "" {
		blueskyPDSURL = "https://bsky.social"
	}

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		SessionSecret:      sessionSecret,
		GinMode:            ginMode,
		UploadDir:          uploadDir,
		UploadURLPath:      uploadURLPath,
		SuperRootUserName:  strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword:  strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
		SiteBaseURL:        siteBaseURL,
		MastodonBaseURL:    strings.TrimSpace(os.Getenv("MASTODON_API_BASE_URL")),
		MastodonToken:      strings.TrimSpace(os.Getenv("MASTODON_ACCESS_TOKEN")),
		BlueskyPDSURL:      blueskyPDSURL,
		BlueskyHandle:      strings.TrimSpace(os.Getenv("BLUESKY_HANDLE")),
		BlueskyAppPassword: strings.TrimSpace(os.Getenv("BLUESKY_APP_PASSWORD")),
	}
}
