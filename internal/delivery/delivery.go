package delivery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/i474232898/weather-voice-notes/internal/speech"
)

var (
	// ErrUnsupportedChannel is returned for unknown delivery channels.
	ErrUnsupportedChannel = errors.New("unsupported delivery channel")
	// ErrInvalidDestination is returned when the destination fails
	// channel-specific format validation.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrDeliveryFailed wraps provider-side send failures.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// Channel selects the delivery transport.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
	ChannelCall  Channel = "call"
	ChannelSMS   Channel = "sms"
)

// ParseChannel validates a channel name from the wire.
func ParseChannel(s string) (Channel, error) {
	switch Channel(strings.ToLower(s)) {
	case ChannelEmail:
		return ChannelEmail, nil
	case ChannelChat:
		return ChannelChat, nil
	case ChannelCall:
		return ChannelCall, nil
	case ChannelSMS:
		return ChannelSMS, nil
	}
	return "", fmt.Errorf("%w: %q (supported: email, chat, call, sms)", ErrUnsupportedChannel, s)
}

// Request describes one delivery attempt of a stored voice note.
type Request struct {
	AudioFilename string  `json:"audioFilename"`
	Channel       Channel `json:"deliveryMethod"`
	Destination   string  `json:"contactInfo"`
	Message       string  `json:"message,omitempty"`
}

// Outcome reports what a sender did. Simulated marks the dry-run branch taken
// when provider credentials are absent, so callers can tell real delivery
// from soft success.
type Outcome struct {
	Success   bool   `json:"success"`
	Simulated bool   `json:"simulated,omitempty"`
	Detail    string `json:"detail"`
}

// AudioRef is a resolved voice note handed to senders: a local path for
// attachments/uploads and a public URL for links and call playback.
type AudioRef struct {
	Path string
	URL  string
}

// Sender delivers a voice note over one channel. Implementations validate the
// destination before any provider call and fall back to a simulated outcome
// when their credentials are not configured.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, req Request, audio AudioRef) (Outcome, error)
}

// Dispatcher routes delivery requests to channel senders.
type Dispatcher struct {
	senders map[Channel]Sender
	store   *speech.Store
	appURL  string
}

func NewDispatcher(store *speech.Store, appURL string, senders ...Sender) *Dispatcher {
	m := make(map[Channel]Sender, len(senders))
	for _, s := range senders {
		m[s.Channel()] = s
	}
	return &Dispatcher{
		senders: m,
		store:   store,
		appURL:  strings.TrimSuffix(appURL, "/"),
	}
}

// Dispatch resolves the audio reference and hands the request to the sender
// for its channel. The audio bytes must already be durably written; a
// reference that does not resolve fails before any provider is contacted.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Outcome, error) {
	sender, ok := d.senders[req.Channel]
	if !ok {
		return Outcome{Detail: fmt.Sprintf("no sender for channel %q", req.Channel)},
			fmt.Errorf("%w: %q", ErrUnsupportedChannel, req.Channel)
	}

	path, err := d.store.Resolve(req.AudioFilename)
	if err != nil {
		return Outcome{Detail: "audio file not found"}, err
	}

	audio := AudioRef{
		Path: path,
		URL:  d.appURL + req.AudioFilename,
	}

	outcome, err := sender.Send(ctx, req, audio)
	if err != nil {
		log.Printf("delivery via %s failed: %v", req.Channel, err)
		return outcome, err
	}

	log.Println(outcome.Detail)
	return outcome, nil
}
