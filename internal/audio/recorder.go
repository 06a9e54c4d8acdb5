// Package audio convierte audio capturado en el data URL que se guarda junto al mensaje.
package audio

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

const DefaultMimeType = "audio/webm"

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrInvalidDataURL   = errors.New("invalid audio data url")
)

// OpenFunc abre la fuente de captura (microfono, archivo, ...).
type OpenFunc func() (io.ReadCloser, error)

// Recorder captura una grabacion a la vez. La fuente se libera en todo camino
// que termina la grabacion, incluidos los errores.
type Recorder struct {
	mu        sync.Mutex
	open      OpenFunc
	mimeType  string
	src       io.ReadCloser
	recording bool
}

func NewRecorder(open OpenFunc, mimeType string) *Recorder {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	return &Recorder{open: open, mimeType: mimeType}
}

func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return ErrAlreadyRecording
	}
	src, err := r.open()
	if err != nil {
		return fmt.Errorf("could not access audio source: %w", err)
	}
	r.src = src
	r.recording = true
	return nil
}

func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Stop drena la fuente, la cierra y devuelve la grabacion como data URL.
// Devuelve "" si no habia grabacion en curso o no se capturo nada.
func (r *Recorder) Stop() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording || r.src == nil {
		return "", nil
	}
	src := r.src
	r.src = nil
	r.recording = false

	data, readErr := io.ReadAll(src)
	closeErr := src.Close()
	if readErr != nil {
		return "", fmt.Errorf("read audio: %w", readErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("release audio source: %w", closeErr)
	}
	if len(data) == 0 {
		return "", nil
	}
	return EncodeDataURL(r.mimeType, data), nil
}

func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL acepta solo data URLs base64 ("data:<mime>;base64,<payload>").
func DecodeDataURL(s string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	// Los navegadores agregan parametros como ";codecs=opus".
	if base, _, found := strings.Cut(mimeType, ";"); found {
		mimeType = base
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return mimeType, data, nil
}
