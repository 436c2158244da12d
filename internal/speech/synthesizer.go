package speech

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrSynthesisFailed is returned when both primary and fallback TTS failed.
var ErrSynthesisFailed = errors.New("both primary and fallback TTS failed")

// Provider converts text to audio bytes in a single attempt.
type Provider interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Synthesizer turns script text into a stored voice note. The primary
// provider gets maxRetries additional immediate attempts; once exhausted the
// fallback provider is tried. Only after bytes are durably written does a
// reference leave this package.
type Synthesizer struct {
	primary    Provider
	fallback   Provider
	store      *Store
	maxRetries int
}

func NewSynthesizer(primary, fallback Provider, store *Store, maxRetries int) *Synthesizer {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Synthesizer{
		primary:    primary,
		fallback:   fallback,
		store:      store,
		maxRetries: maxRetries,
	}
}

// Synthesize returns the stored asset and whether the fallback provider
// produced it. On total failure nothing is written and ErrSynthesisFailed
// wraps the last provider errors.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (Asset, bool, error) {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		audio, err := s.primary.Synthesize(ctx, text)
		if err == nil {
			asset, werr := s.store.Save(audio)
			if werr != nil {
				return Asset{}, false, werr
			}
			return asset, false, nil
		}

		lastErr = err
		log.Printf("%s synthesis attempt %d/%d failed: %v", s.primary.Name(), attempt+1, s.maxRetries+1, err)

		if ctx.Err() != nil {
			return Asset{}, false, ctx.Err()
		}
	}

	log.Printf("all %s attempts failed, trying %s", s.primary.Name(), s.fallback.Name())

	audio, err := s.fallback.Synthesize(ctx, text)
	if err != nil {
		log.Printf("%s synthesis failed: %v", s.fallback.Name(), err)
		return Asset{}, false, fmt.Errorf("%w: primary: %v, fallback: %v", ErrSynthesisFailed, lastErr, err)
	}

	asset, err := s.store.Save(audio)
	if err != nil {
		return Asset{}, false, err
	}
	return asset, true, nil
}
