package delivery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/i474232898/weather-voice-notes/internal/speech"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, speech.Asset) {
	t.Helper()

	store := speech.NewStore(t.TempDir())
	asset, err := store.Save([]byte("mp3"))
	if err != nil {
		t.Fatalf("save asset: %v", err)
	}

	d := NewDispatcher(store, "http://localhost:8080",
		NewEmailSender("smtp.example.com", 587, "", ""),
		NewChatSender(""),
		NewCallSender("", "", ""),
		NewSMSSender("", "", ""),
	)
	return d, asset
}

func TestDispatchEmailSoftSuccessWithoutCredentials(t *testing.T) {
	d, asset := newTestDispatcher(t)

	outcome, err := d.Dispatch(context.Background(), Request{
		AudioFilename: asset.Filename,
		Channel:       ChannelEmail,
		Destination:   "user@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Success {
		t.Error("expected soft success without credentials")
	}
	if !outcome.Simulated {
		t.Error("outcome must be marked simulated")
	}
	if !strings.Contains(outcome.Detail, "would have") {
		t.Errorf("detail should describe the simulated send, got %q", outcome.Detail)
	}
}

func TestDispatchValidatesBeforeSimulating(t *testing.T) {
	d, asset := newTestDispatcher(t)

	_, err := d.Dispatch(context.Background(), Request{
		AudioFilename: asset.Filename,
		Channel:       ChannelEmail,
		Destination:   "not-an-email",
	})
	if !errors.Is(err, ErrInvalidDestination) {
		t.Fatalf("expected ErrInvalidDestination, got %v", err)
	}
}

func TestDispatchPhoneChannelsSoftSuccess(t *testing.T) {
	d, asset := newTestDispatcher(t)

	for _, ch := range []Channel{ChannelCall, ChannelSMS} {
		outcome, err := d.Dispatch(context.Background(), Request{
			AudioFilename: asset.Filename,
			Channel:       ch,
			Destination:   "1234567890",
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", ch, err)
		}
		if !outcome.Success || !outcome.Simulated {
			t.Errorf("%s: expected simulated soft success, got %+v", ch, outcome)
		}
		if !strings.Contains(outcome.Detail, "+1234567890") {
			t.Errorf("%s: detail should carry the normalized number, got %q", ch, outcome.Detail)
		}

		_, err = d.Dispatch(context.Background(), Request{
			AudioFilename: asset.Filename,
			Channel:       ch,
			Destination:   "abc",
		})
		if !errors.Is(err, ErrInvalidDestination) {
			t.Errorf("%s: expected ErrInvalidDestination for %q, got %v", ch, "abc", err)
		}
	}
}

func TestDispatchUnknownChannel(t *testing.T) {
	d, asset := newTestDispatcher(t)

	_, err := d.Dispatch(context.Background(), Request{
		AudioFilename: asset.Filename,
		Channel:       Channel("pigeon"),
		Destination:   "user@example.com",
	})
	if !errors.Is(err, ErrUnsupportedChannel) {
		t.Fatalf("expected ErrUnsupportedChannel, got %v", err)
	}
}

func TestDispatchMissingAudio(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Dispatch(context.Background(), Request{
		AudioFilename: "/audio/voice-note-missing.mp3",
		Channel:       ChannelEmail,
		Destination:   "user@example.com",
	})
	if !errors.Is(err, speech.ErrNoVoiceNotes) {
		t.Fatalf("expected missing-audio error, got %v", err)
	}
}
