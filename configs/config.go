package config

import "os"

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	PostgresURI        string
	RedisURI           string
	FrontendURL        string
	ListenAddr         string
	R2                 R2
	UploadPreset       string
	SecretKey          string
	CookieName         string
	PublishSweep       string
}

func LoadConfig() *Config {
	return &Config{
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3000/login/callback"),
		PostgresURI:        getEnv("POSTGRES_URI", ""),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
		ListenAddr:         getEnv("LISTEN_ADDR", ":3000"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		UploadPreset: getEnv("UPLOAD_PRESET", "approvals"),
		SecretKey:    getEnv("SECRET_KEY", ""),
		CookieName:   getEnv("COOKIE_NAME", "approvals_session"),
		PublishSweep: getEnv("PUBLISH_SWEEP", "@every 00h05m00s"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
