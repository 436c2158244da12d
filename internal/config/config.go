package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// Weather provider.
	OpenWeatherAPIKey string
	DefaultCity       string

	// Script generation (OpenAI chat completions).
	OpenAIAPIKey string
	OpenAIModel  string

	// Speech synthesis.
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	TTSMaxRetries     int

	// Delivery credentials. Any of these may be empty; the corresponding
	// channel then runs in simulated (dry-run) mode.
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	TelegramBotToken string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// AudioDir is where synthesized voice notes are written; it is also
	// served statically under /audio.
	AudioDir string

	// AppURL is the externally reachable base URL used to build audio links
	// for SMS, calls and chat messages.
	AppURL string

	// HTTPTimeout bounds general outbound provider calls; TTSTimeout bounds
	// speech synthesis calls, which routinely take much longer.
	HTTPTimeout time.Duration
	TTSTimeout  time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.DefaultCity = getenvDefault("DEFAULT_CITY", "London")

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")

	cfg.ElevenLabsAPIKey = os.Getenv("ELEVENLABS_API_KEY")
	// Rachel.
	cfg.ElevenLabsVoiceID = getenvDefault("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM")
	cfg.TTSMaxRetries = getenvInt("TTS_MAX_RETRIES", 2)

	cfg.SMTPHost = getenvDefault("SMTP_HOST", "smtp.gmail.com")
	cfg.SMTPPort = getenvInt("SMTP_PORT", 587)
	cfg.SMTPUser = os.Getenv("EMAIL_USER")
	cfg.SMTPPass = os.Getenv("EMAIL_PASS")
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = os.Getenv("TWILIO_PHONE_NUMBER")

	cfg.AudioDir = getenvDefault("AUDIO_DIR", "public/audio")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.AppURL = getenvDefault("APP_URL", "http://localhost:"+cfg.Port)

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	ttsTimeoutStr := getenvDefault("TTS_TIMEOUT", "120s")
	ttsTimeout, err := time.ParseDuration(ttsTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_TIMEOUT: %w", err)
	}
	cfg.TTSTimeout = ttsTimeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
