package speech

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNoVoiceNotes is returned when the store holds no audio files yet.
	ErrNoVoiceNotes = errors.New("no voice notes available")
	// ErrBadFilename is returned for references outside the audio directory.
	ErrBadFilename = errors.New("invalid audio filename")
)

// Asset is a durably written voice note. Filename is the public reference
// served under /audio; Path is the absolute location on disk.
type Asset struct {
	Filename string `json:"audioFilename"`
	Path     string `json:"-"`
}

// Store writes voice notes to a single audio directory under collision-free
// names. Files are never mutated after creation.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory assets are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the audio bytes under a fresh UUID-based name and returns the
// asset. The reference is only returned once the bytes are on disk.
func (s *Store) Save(data []byte) (Asset, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("create audio dir: %w", err)
	}

	name := fmt.Sprintf("voice-note-%s.mp3", uuid.NewString())
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Asset{}, fmt.Errorf("write voice note: %w", err)
	}

	return Asset{
		Filename: "/audio/" + name,
		Path:     path,
	}, nil
}

// Latest returns the public reference of the most recently written voice note.
func (s *Store) Latest() (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoVoiceNotes
		}
		return "", err
	}

	var latest string
	var latestMod int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp3") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest = e.Name()
			latestMod = mod
		}
	}

	if latest == "" {
		return "", ErrNoVoiceNotes
	}
	return "/audio/" + latest, nil
}

// Resolve maps a public reference like "/audio/voice-note-x.mp3" back to the
// absolute path of an existing file inside the audio directory.
func (s *Store) Resolve(filename string) (string, error) {
	name := strings.TrimPrefix(filename, "/audio/")
	name = strings.TrimPrefix(name, "audio/")

	// Reject anything that tries to escape the audio directory.
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrBadFilename, filename)
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrNoVoiceNotes, filename)
		}
		return "", err
	}
	return path, nil
}
