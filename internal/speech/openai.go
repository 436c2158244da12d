package speech

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/i474232898/weather-voice-notes/internal/common"
)

// openAISpeechMaxInput keeps inputs under the 4096-character limit of the
// OpenAI speech endpoint, with headroom for the truncation marker.
const openAISpeechMaxInput = 4000

// OpenAITTS is the fallback TTS provider, using OpenAI's speech endpoint
// through go-openai.
type OpenAITTS struct {
	client *openai.Client
	voice  openai.SpeechVoice
}

// NewOpenAITTS creates the fallback provider. A nil client means the fallback
// is unavailable and synthesis fails outright once the primary is exhausted.
func NewOpenAITTS(client *openai.Client) *OpenAITTS {
	return &OpenAITTS{
		client: client,
		voice:  openai.VoiceAlloy,
	}
}

func (o *OpenAITTS) Name() string { return "openai-tts" }

// Synthesize converts text to MP3 audio bytes.
func (o *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if o.client == nil {
		return nil, fmt.Errorf("openai api key is not configured")
	}

	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Input:          common.Truncate(text, openAISpeechMaxInput),
		Voice:          o.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("openai returned empty audio")
	}
	return audio, nil
}
