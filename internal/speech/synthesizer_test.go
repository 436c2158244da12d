package speech

import (
	"context"
	"errors"
	"os"
	"testing"
)

type fakeProvider struct {
	name  string
	audio []byte
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func TestSynthesizePrimarySuccess(t *testing.T) {
	primary := &fakeProvider{name: "primary", audio: []byte("mp3-bytes")}
	fallback := &fakeProvider{name: "fallback", err: errors.New("should not be called")}
	store := NewStore(t.TempDir())

	syn := NewSynthesizer(primary, fallback, store, 2)

	asset, usedFallback, err := syn.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usedFallback {
		t.Error("primary succeeded, usedFallback should be false")
	}
	if primary.calls != 1 {
		t.Errorf("expected 1 primary call, got %d", primary.calls)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback must not be called, got %d calls", fallback.calls)
	}

	// The returned reference must be dereferenceable immediately.
	data, err := os.ReadFile(asset.Path)
	if err != nil {
		t.Fatalf("asset path must exist: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Errorf("unexpected stored bytes: %q", data)
	}
}

func TestSynthesizeRetriesThenFallback(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("boom")}
	fallback := &fakeProvider{name: "fallback", audio: []byte("fallback-bytes")}
	store := NewStore(t.TempDir())

	syn := NewSynthesizer(primary, fallback, store, 2)

	asset, usedFallback, err := syn.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !usedFallback {
		t.Error("expected the fallback provider to be used")
	}
	if primary.calls != 3 {
		t.Errorf("expected 3 primary attempts, got %d", primary.calls)
	}
	if fallback.calls != 1 {
		t.Errorf("expected 1 fallback attempt, got %d", fallback.calls)
	}
	if _, err := os.Stat(asset.Path); err != nil {
		t.Fatalf("asset path must exist: %v", err)
	}
}

func TestSynthesizeTotalFailureWritesNothing(t *testing.T) {
	primary := &fakeProvider{name: "primary", err: errors.New("boom")}
	fallback := &fakeProvider{name: "fallback", err: errors.New("also boom")}
	dir := t.TempDir()

	syn := NewSynthesizer(primary, fallback, NewStore(dir), 2)

	_, _, err := syn.Synthesize(context.Background(), "hello")
	if !errors.Is(err, ErrSynthesisFailed) {
		t.Fatalf("expected ErrSynthesisFailed, got %v", err)
	}

	entries, rerr := os.ReadDir(dir)
	if rerr != nil {
		t.Fatalf("read dir: %v", rerr)
	}
	if len(entries) != 0 {
		t.Errorf("no files must be written on total failure, found %d", len(entries))
	}
}
