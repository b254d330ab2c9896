package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port         string
	APIBaseURL   string
	MediaBaseURL string
	LogFile      string
	TemplatesDir string
	StaticDir    string

	// SessionCookie names the cookie the page shell stores the API token in.
	SessionCookie  string
	APITimeout     time.Duration
	MaxUploadBytes int

	ResetOnSuccess bool
	SubmitGuard    bool
	ResizePhotos   bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	api := strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if api == "" {
		api = "https://pets.сделай.site/api"
	}
	media := strings.TrimRight(os.Getenv("MEDIA_BASE_URL"), "/")
	if media == "" {
		media = "https://pets.сделай.site"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./lostpets.log"
	}
	templates := os.Getenv("TEMPLATES_DIR")
	if templates == "" {
		templates = "./web/templates"
	}
	static := os.Getenv("STATIC_DIR")
	if static == "" {
		static = "./web/static"
	}
	cookie := os.Getenv("SESSION_COOKIE")
	if cookie == "" {
		cookie = "token"
	}

	cfg := Config{
		Port:           port,
		APIBaseURL:     api,
		MediaBaseURL:   media,
		LogFile:        logFile,
		TemplatesDir:   templates,
		StaticDir:      static,
		SessionCookie:  cookie,
		APITimeout:     envDuration("API_TIMEOUT", 15*time.Second),
		MaxUploadBytes: envInt("MAX_UPLOAD_BYTES", 8<<20), // three photos plus fields
		ResetOnSuccess: envBool("RESET_ON_SUCCESS", false),
		SubmitGuard:    envBool("SUBMIT_GUARD", true),
		ResizePhotos:   envBool("RESIZE_PHOTOS", true),
	}
	log.Printf("[config] PORT=%s API_BASE_URL=%s MEDIA_BASE_URL=%s LOG_FILE=%s API_TIMEOUT=%s RESET_ON_SUCCESS=%t SUBMIT_GUARD=%t RESIZE_PHOTOS=%t",
		cfg.Port, cfg.APIBaseURL, cfg.MediaBaseURL, cfg.LogFile, cfg.APITimeout, cfg.ResetOnSuccess, cfg.SubmitGuard, cfg.ResizePhotos)
	return cfg
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] ignoring %s=%q: %v", key, v, err)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring %s=%q", key, v)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] ignoring %s=%q", key, v)
		return def
	}
	return d
}
