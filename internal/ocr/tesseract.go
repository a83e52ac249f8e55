package ocr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractBackend implements Backend using the Tesseract OCR engine via
// gosseract. One gosseract client is created at Init and reused for every
// recognition, so the language model is loaded exactly once.
//
// Design decision: The gosseract client is not safe for concurrent use, so
// Recognize serializes calls with a mutex. The Engine permits concurrent
// Recognize calls; the serialization lives here where the constraint is.
type TesseractBackend struct {
	// mu serializes all access to the client.
	mu sync.Mutex

	// client is the long-lived gosseract client, nil until Init.
	client *gosseract.Client

	// language is the Tesseract language code (e.g. "eng").
	language string
}

// NewTesseractBackend creates a backend recognizing the given language.
func NewTesseractBackend(language string) *TesseractBackend {
	return &TesseractBackend{language: language}
}

// Init creates the gosseract client and loads the language model.
func (b *TesseractBackend) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if b.client != nil {
		return nil
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(b.language); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to set language %q: %w", b.language, err)
	}

	b.client = client
	return nil
}

// Recognize runs Tesseract over PNG-encoded image bytes.
//
// The confidence score is the mean of Tesseract's word-level confidences.
// When word boxes are unavailable the text is still returned with a zero
// confidence. Tesseract calls are not interruptible, so the context is only
// checked before recognition starts.
func (b *TesseractBackend) Recognize(ctx context.Context, imageBytes []byte) (Recognition, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		return Recognition{}, errors.New("tesseract client not initialized")
	}
	if err := ctx.Err(); err != nil {
		return Recognition{}, err
	}

	if err := b.client.SetImageFromBytes(imageBytes); err != nil {
		return Recognition{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := b.client.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	return Recognition{
		Text:       text,
		Confidence: b.meanWordConfidence(),
	}, nil
}

// meanWordConfidence averages Tesseract's per-word confidence scores for
// the image currently set on the client. Caller must hold b.mu.
func (b *TesseractBackend) meanWordConfidence() float64 {
	boxes, err := b.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}

	var sum float64
	var count int
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		sum += box.Confidence
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Close releases the gosseract client. Safe to call without a prior Init.
func (b *TesseractBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

// Version returns the Tesseract library version, initializing a throwaway
// client if needed. Used by the version command to report OCR availability.
func Version() string {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()
	return client.Version()
}
