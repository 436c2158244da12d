package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var (
	// ErrCityNotFound is returned when the provider does not know the city.
	ErrCityNotFound = errors.New("city not found")
	// ErrUnauthorized is returned when the provider rejects our API key.
	ErrUnauthorized = errors.New("weather provider rejected credentials")
)

// Report is the normalized current-weather view for a city.
type Report struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"` // Celsius
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"` // percent
	WindSpeed   float64 `json:"windSpeed"` // m/s
	Icon        string  `json:"icon,omitempty"`
}

// Provider abstracts a current-weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (Report, error)
}

// Service resolves current weather through a single provider, applying the
// configured default city when the caller passes none. It performs no retries;
// retry policy belongs to callers.
type Service struct {
	provider    Provider
	defaultCity string
}

func NewService(provider Provider, defaultCity string) *Service {
	return &Service{
		provider:    provider,
		defaultCity: defaultCity,
	}
}

// Current fetches a fresh weather report for the given city.
func (s *Service) Current(ctx context.Context, city string) (Report, error) {
	if city == "" {
		city = s.defaultCity
	}

	report, err := s.provider.Fetch(ctx, city)
	if err != nil {
		log.Printf("provider %s fetch failed for %q: %v", s.provider.Name(), city, err)
		return Report{}, fmt.Errorf("fetch weather for %q: %w", city, err)
	}
	return report, nil
}
