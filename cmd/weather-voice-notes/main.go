package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	openai "github.com/sashabaranov/go-openai"

	httpapi "github.com/i474232898/weather-voice-notes/internal/api/http"
	"github.com/i474232898/weather-voice-notes/internal/config"
	"github.com/i474232898/weather-voice-notes/internal/delivery"
	"github.com/i474232898/weather-voice-notes/internal/notify"
	"github.com/i474232898/weather-voice-notes/internal/pipeline"
	"github.com/i474232898/weather-voice-notes/internal/quote"
	"github.com/i474232898/weather-voice-notes/internal/script"
	"github.com/i474232898/weather-voice-notes/internal/speech"
	"github.com/i474232898/weather-voice-notes/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP clients for outbound provider calls. TTS gets its own
	// client because synthesis runs much longer than a weather lookup.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	ttsClient := &http.Client{Timeout: cfg.TTSTimeout}

	var openAIClient *openai.Client
	if cfg.OpenAIAPIKey != "" {
		openAIClient = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Println("INFO: OPENAI_API_KEY not set; script generation uses the template fallback")
	}

	// Pipeline stages, leaf to root.
	weatherSvc := weather.NewService(
		weather.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey),
		cfg.DefaultCity,
	)
	quotes := quote.NewSource()
	scripts := script.NewGenerator(openAIClient, cfg.OpenAIModel)

	store := speech.NewStore(cfg.AudioDir)
	elevenLabs := speech.NewElevenLabsClient(ttsClient, cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
	synthesizer := speech.NewSynthesizer(elevenLabs, speech.NewOpenAITTS(openAIClient), store, cfg.TTSMaxRetries)

	dispatcher := delivery.NewDispatcher(store, cfg.AppURL,
		delivery.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		delivery.NewChatSender(cfg.TelegramBotToken),
		delivery.NewCallSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
		delivery.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber),
	)

	p := pipeline.New(weatherSvc, quotes, scripts, synthesizer, dispatcher)

	// Scheduler for the daily voice note job.
	sched := notify.New(p)
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-voice-notes",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-voice-notes",
		})
	})

	// Synthesized voice notes are served from the audio directory.
	app.Static("/audio", cfg.AudioDir)

	// API routes.
	httpapi.RegisterRoutes(app, httpapi.Deps{
		Pipeline: p,
		Store:    store,
		Voices:   elevenLabs,
		Notify:   sched,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
