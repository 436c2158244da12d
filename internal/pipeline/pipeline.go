package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/i474232898/weather-voice-notes/internal/common"
	"github.com/i474232898/weather-voice-notes/internal/delivery"
	"github.com/i474232898/weather-voice-notes/internal/quote"
	"github.com/i474232898/weather-voice-notes/internal/script"
	"github.com/i474232898/weather-voice-notes/internal/speech"
	"github.com/i474232898/weather-voice-notes/internal/weather"
)

// Pipeline composes the stages of one voice note run: weather lookup, quote
// selection, script generation, speech synthesis and delivery. Stages are
// exported so the HTTP layer can also drive them individually for
// interactive use.
type Pipeline struct {
	Weather  *weather.Service
	Quotes   *quote.Source
	Scripts  *script.Generator
	Speech   *speech.Synthesizer
	Delivery *delivery.Dispatcher
}

func New(w *weather.Service, q *quote.Source, s *script.Generator, sp *speech.Synthesizer, d *delivery.Dispatcher) *Pipeline {
	return &Pipeline{
		Weather:  w,
		Quotes:   q,
		Scripts:  s,
		Speech:   sp,
		Delivery: d,
	}
}

// RunRequest describes one end-to-end run.
type RunRequest struct {
	City        string
	Channel     delivery.Channel
	Destination string
	Message     string
	Deliver     bool
}

// RunResult carries everything a run produced. Asset stays populated even
// when delivery fails, so callers can still hand out the audio reference.
type RunResult struct {
	Report          weather.Report
	Script          string
	Asset           speech.Asset
	UsedFallbackTTS bool
	Delivery        *delivery.Outcome
}

// Run executes the stages strictly in order. Quote selection failure is
// non-fatal; any other stage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	var result RunResult

	report, err := p.Weather.Current(ctx, req.City)
	if err != nil {
		return result, fmt.Errorf("weather lookup: %w", err)
	}
	result.Report = report

	message := req.Message
	if message == "" {
		q, err := p.Quotes.Next()
		if err != nil {
			log.Printf("quote selection failed, continuing without one: %v", err)
		} else {
			message = q.String()
		}
	}

	text, err := p.Scripts.Generate(ctx, report, message)
	if err != nil {
		return result, fmt.Errorf("script generation: %w", err)
	}
	result.Script = text
	log.Printf("generated voice script: %s", common.Truncate(text, 100))

	asset, usedFallback, err := p.Speech.Synthesize(ctx, text)
	if err != nil {
		return result, fmt.Errorf("speech synthesis: %w", err)
	}
	result.Asset = asset
	result.UsedFallbackTTS = usedFallback

	if !req.Deliver {
		return result, nil
	}

	outcome, err := p.Delivery.Dispatch(ctx, delivery.Request{
		AudioFilename: asset.Filename,
		Channel:       req.Channel,
		Destination:   req.Destination,
	})
	result.Delivery = &outcome
	if err != nil {
		// The asset is already written; callers can still serve it.
		return result, fmt.Errorf("delivery: %w", err)
	}

	return result, nil
}
