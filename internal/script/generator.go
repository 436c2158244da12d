package script

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/i474232898/weather-voice-notes/internal/common"
	"github.com/i474232898/weather-voice-notes/internal/weather"
)

// ErrEmptyScript is returned when a generation path produced no usable text.
var ErrEmptyScript = errors.New("generated script is empty")

// Generator produces a spoken-style voice note script from a weather report
// and an optional motivational message. The primary path asks an OpenAI chat
// model; any failure there falls back to a deterministic template.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator. A nil client (no API key configured)
// makes every call take the template fallback path.
func NewGenerator(client *openai.Client, model string) *Generator {
	return &Generator{client: client, model: model}
}

// Generate returns non-empty script text or ErrEmptyScript.
func (g *Generator) Generate(ctx context.Context, report weather.Report, message string) (string, error) {
	if g.client != nil {
		text, err := g.generateAI(ctx, report, message)
		if err == nil {
			return text, nil
		}
		log.Printf("script generation via model failed, using fallback template: %v", err)
	}

	text := FallbackScript(report, message)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyScript
	}
	return text, nil
}

func (g *Generator) generateAI(ctx context.Context, report weather.Report, message string) (string, error) {
	prompt := buildPrompt(report, message)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyScript
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyScript
	}
	return text, nil
}

func buildPrompt(report weather.Report, message string) string {
	var b strings.Builder

	b.WriteString("Generate a friendly morning voice note script that includes weather information")
	if message != "" {
		b.WriteString(" and a motivational quote")
	}
	b.WriteString(".\n\nWeather information:\n")
	fmt.Fprintf(&b, "- City: %s\n", report.City)
	fmt.Fprintf(&b, "- Temperature: %.0f°C\n", math.Round(report.Temperature))
	fmt.Fprintf(&b, "- Condition: %s\n", report.Description)
	fmt.Fprintf(&b, "- Humidity: %.0f%%\n", report.Humidity)
	fmt.Fprintf(&b, "- Wind Speed: %.1f m/s\n", report.WindSpeed)

	if message != "" {
		fmt.Fprintf(&b, "\nMotivational Quote:\n%s\n", message)
	}

	b.WriteString(`
Requirements:
- Keep it natural and conversational, as if a friendly person is speaking
- Include a greeting with the current day
- Summarize the weather conditions in an engaging way`)
	if message != "" {
		b.WriteString("\n- Incorporate the motivational quote smoothly into the message")
	}
	b.WriteString(`
- End with a friendly sign-off
- Keep the total length to about 100-150 words`)

	return b.String()
}

// FallbackScript builds the deterministic template used whenever model
// generation is unavailable or fails. The result always mentions the city
// and, when supplied, contains the motivational message verbatim.
func FallbackScript(report weather.Report, message string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Good morning! Here's your weather update for %s. ", report.City)
	fmt.Fprintf(&b, "It's currently %.0f degrees with %s, humidity at %.0f percent and wind at %.1f meters per second. ",
		math.Round(report.Temperature), report.Description, report.Humidity, report.WindSpeed)
	b.WriteString(adviceFor(report))

	if message != "" {
		b.WriteString(" Here's a thought for your day: ")
		b.WriteString(message)
	}

	b.WriteString(" Have a wonderful day!")
	return b.String()
}

// adviceFor returns a one-line piece of advice keyed on the weather
// description and temperature.
func adviceFor(report weather.Report) string {
	desc := strings.ToLower(report.Description)

	switch {
	case common.HasAny(desc, "rain", "drizzle", "shower"):
		return "Don't forget your umbrella before heading out!"
	case common.HasAny(desc, "snow", "sleet", "blizzard"):
		return "Bundle up warm and watch your step out there."
	case common.HasAny(desc, "cloud", "overcast"):
		return "A bit grey outside, but that's no reason not to shine."
	case common.HasAny(desc, "clear", "sunny"):
		return "It's a beautiful clear day, so get outside if you can."
	case common.HasAny(desc, "hot") || report.Temperature >= 30:
		return "It's a hot one, so stay hydrated and find some shade."
	case common.HasAny(desc, "cold", "frost", "freez") || report.Temperature <= 0:
		return "It's freezing out there, so wrap up well."
	default:
		return "Whatever the sky is doing, make it a good one."
	}
}
