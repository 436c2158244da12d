package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-voice-notes/internal/delivery"
	"github.com/i474232898/weather-voice-notes/internal/notify"
	"github.com/i474232898/weather-voice-notes/internal/pipeline"
	"github.com/i474232898/weather-voice-notes/internal/speech"
	"github.com/i474232898/weather-voice-notes/internal/weather"
)

var validate = validator.New()

// Deps bundles everything the HTTP handlers drive.
type Deps struct {
	Pipeline *pipeline.Pipeline
	Store    *speech.Store
	Voices   *speech.ElevenLabsClient
	Notify   *notify.Scheduler
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	app.Get("/weather", func(c *fiber.Ctx) error {
		report, err := deps.Pipeline.Weather.Current(c.UserContext(), c.Query("city"))
		if err != nil {
			switch {
			case errors.Is(err, weather.ErrCityNotFound):
				return fiber.NewError(fiber.StatusNotFound, "City not found. Please check the spelling and try again.")
			case errors.Is(err, weather.ErrUnauthorized):
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid API key or authorization error")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch weather data")
		}
		return c.JSON(report)
	})

	app.Get("/quote", func(c *fiber.Ctx) error {
		q, err := deps.Pipeline.Quotes.Next()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to get motivational quote")
		}
		return c.JSON(q)
	})

	app.Post("/generate-voice", func(c *fiber.Ctx) error {
		var req generateVoiceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
		}
		if req.WeatherData == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Weather data is required")
		}
		if err := validate.Struct(req.WeatherData); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Weather data must include city, temperature, and description")
		}

		report := req.WeatherData.toReport()

		text, err := deps.Pipeline.Scripts.Generate(c.UserContext(), report, req.MotivationalMessage)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to generate voice note",
				"details": err.Error(),
			})
		}

		asset, usedFallback, err := deps.Pipeline.Speech.Synthesize(c.UserContext(), text)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to generate voice note",
				"details": err.Error(),
			})
		}

		var sendResult *delivery.Outcome
		if req.SendNow && req.DeliveryMethod != "" && req.ContactInfo != "" {
			channel, err := delivery.ParseChannel(req.DeliveryMethod)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error":         err.Error(),
					"audioFilename": asset.Filename,
					"usedFallback":  usedFallback,
				})
			}

			outcome, err := deps.Pipeline.Delivery.Dispatch(c.UserContext(), delivery.Request{
				AudioFilename: asset.Filename,
				Channel:       channel,
				Destination:   req.ContactInfo,
			})
			if err != nil {
				// The audio exists; return its reference so the client
				// is not forced to regenerate.
				status := fiber.StatusInternalServerError
				if errors.Is(err, delivery.ErrInvalidDestination) {
					status = fiber.StatusBadRequest
				}
				return c.Status(status).JSON(fiber.Map{
					"error":         "Failed to send voice note",
					"details":       err.Error(),
					"audioFilename": asset.Filename,
					"usedFallback":  usedFallback,
				})
			}
			sendResult = &outcome
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"audioFilename": asset.Filename,
			"usedFallback":  usedFallback,
			"sendResult":    sendResult,
		})
	})

	app.Post("/send-voice", func(c *fiber.Ctx) error {
		var req sendVoiceRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
		}
		if req.AudioFilename == "" || req.DeliveryMethod == "" || req.ContactInfo == "" {
			return fiber.NewError(fiber.StatusBadRequest,
				"Missing required fields: audioFilename, deliveryMethod, or contactInfo")
		}

		channel, err := delivery.ParseChannel(req.DeliveryMethod)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		outcome, err := deps.Pipeline.Delivery.Dispatch(c.UserContext(), delivery.Request{
			AudioFilename: req.AudioFilename,
			Channel:       channel,
			Destination:   req.ContactInfo,
			Message:       req.Message,
		})
		if err != nil {
			switch {
			case errors.Is(err, speech.ErrNoVoiceNotes), errors.Is(err, speech.ErrBadFilename):
				return fiber.NewError(fiber.StatusNotFound, "Audio file not found")
			case errors.Is(err, delivery.ErrInvalidDestination),
				errors.Is(err, delivery.ErrUnsupportedChannel):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError,
				fmt.Sprintf("Failed to send voice note: %v", err))
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": outcome.Detail,
		})
	})

	app.Get("/latest-voice", func(c *fiber.Ctx) error {
		latest, err := deps.Store.Latest()
		if err != nil {
			if errors.Is(err, speech.ErrNoVoiceNotes) {
				return fiber.NewError(fiber.StatusNotFound, "No voice notes available")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to get latest voice note")
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"audioFilename": latest,
		})
	})

	app.Get("/voices", func(c *fiber.Ctx) error {
		if !deps.Voices.Configured() {
			return fiber.NewError(fiber.StatusInternalServerError, "ElevenLabs API key not configured")
		}

		voices, err := deps.Voices.Voices(c.UserContext())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to fetch available voices",
				"details": err.Error(),
			})
		}
		if len(voices) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "No voices found or error fetching voices")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"count":   len(voices),
			"voices":  voices,
		})
	})

	app.Get("/schedule", func(c *fiber.Ctx) error {
		cfg := deps.Notify.Get()
		return c.JSON(fiber.Map{
			"enabled":  cfg != nil,
			"settings": cfg,
		})
	})

	app.Post("/schedule", func(c *fiber.Ctx) error {
		var cfg notify.Config
		if err := c.BodyParser(&cfg); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
		}

		if err := deps.Notify.Set(cfg); err != nil {
			switch {
			case errors.Is(err, notify.ErrInvalidSchedule),
				errors.Is(err, delivery.ErrInvalidDestination),
				errors.Is(err, delivery.ErrUnsupportedChannel):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to set auto notifications")
		}

		settings := deps.Notify.Get()
		message := "Auto notifications disabled"
		if settings != nil {
			message = fmt.Sprintf("Auto notifications enabled for %s at %s via %s",
				settings.City, settings.Time, settings.Channel)
		}

		return c.JSON(fiber.Map{
			"success":  true,
			"message":  message,
			"settings": settings,
		})
	})
}

// generateVoiceRequest is the body of POST /generate-voice. WeatherData comes
// from the client (interactive use) rather than a fresh lookup.
type generateVoiceRequest struct {
	WeatherData         *weatherPayload `json:"weatherData"`
	MotivationalMessage string          `json:"motivationalMessage"`
	DeliveryMethod      string          `json:"deliveryMethod"`
	ContactInfo         string          `json:"contactInfo"`
	SendNow             bool            `json:"sendNow"`
}

type weatherPayload struct {
	City        string   `json:"city" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Humidity    float64  `json:"humidity"`
	WindSpeed   float64  `json:"windSpeed"`
	Icon        string   `json:"icon"`
}

func (w weatherPayload) toReport() weather.Report {
	report := weather.Report{
		City:        w.City,
		Description: w.Description,
		Humidity:    w.Humidity,
		WindSpeed:   w.WindSpeed,
		Icon:        w.Icon,
	}
	if w.Temperature != nil {
		report.Temperature = *w.Temperature
	}
	return report
}

// sendVoiceRequest is the body of POST /send-voice.
type sendVoiceRequest struct {
	AudioFilename  string `json:"audioFilename"`
	DeliveryMethod string `json:"deliveryMethod"`
	ContactInfo    string `json:"contactInfo"`
	Message        string `json:"message"`
}
