package Capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"GroundCheck/Draft"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ErrPermissionDenied is returned when the camera stream is refused. It is a
// warning condition for the UI, not fatal to the session.
var ErrPermissionDenied = errors.New("camera permission denied")

// FrameSource is an exclusive camera stream.
type FrameSource interface {
	// Acquire opens the stream. May block on a user permission prompt.
	Acquire(ctx context.Context) error
	// Frame renders one still frame from the stream.
	Frame() (image.Image, error)
	// Close stops all tracks of the stream.
	Close() error
}

// Locator reports the current device coordinates.
type Locator interface {
	Current(ctx context.Context) (lat, lon float64, err error)
}

const (
	defaultMaxEdge      = 1280
	defaultQuality      = 80
	defaultLocationWait = 5 * time.Second
)

// Pipeline captures camera frames into the draft store.
type Pipeline struct {
	Source  FrameSource
	Locator Locator
	Store   *Draft.Store

	// MaxEdge bounds the longest image edge before encoding.
	MaxEdge int
	// Quality is the JPEG quality (1-100).
	Quality int
	// LocationWait bounds the wait for coordinates; on timeout the capture
	// proceeds without them.
	LocationWait time.Duration
}

// NewPipeline creates a pipeline with the default encoding bounds.
func NewPipeline(source FrameSource, locator Locator, store *Draft.Store) *Pipeline {
	return &Pipeline{
		Source:       source,
		Locator:      locator,
		Store:        store,
		MaxEdge:      defaultMaxEdge,
		Quality:      defaultQuality,
		LocationWait: defaultLocationWait,
	}
}

// Capture acquires the camera stream, encodes one frame as a bounded lossy
// JPEG, attaches coordinates when they arrive in time, and appends the entry
// to the draft under pointNumber. Pass 0 to use the draft's next point number.
// The stream is released before Capture returns, on every path.
func (p *Pipeline) Capture(ctx context.Context, pointNumber int) (Draft.PhotoEntry, error) {
	if err := p.Source.Acquire(ctx); err != nil {
		return Draft.PhotoEntry{}, err
	}
	defer p.Source.Close()

	frame, err := p.Source.Frame()
	if err != nil {
		return Draft.PhotoEntry{}, fmt.Errorf("failed to capture frame: %w", err)
	}

	payload, err := p.encode(frame)
	if err != nil {
		return Draft.PhotoEntry{}, err
	}

	if pointNumber <= 0 {
		pointNumber = p.Store.NextPointNumber()
	}

	entry := Draft.PhotoEntry{
		ID:          uuid.NewString(),
		PointNumber: pointNumber,
		Image:       payload,
		CapturedAt:  time.Now(),
	}

	lat, lon, err := p.locate(ctx)
	if err != nil {
		// Proceed without coordinates rather than blocking the capture.
		log.Println("Capture without coordinates:", err)
	} else {
		entry.Latitude = &lat
		entry.Longitude = &lon
	}

	if err := p.Store.AddPhoto(entry); err != nil {
		return Draft.PhotoEntry{}, err
	}
	return entry, nil
}

func (p *Pipeline) encode(frame image.Image) (string, error) {
	bounds := frame.Bounds()
	if bounds.Dx() > p.MaxEdge || bounds.Dy() > p.MaxEdge {
		frame = imaging.Fit(frame, p.MaxEdge, p.MaxEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame, imaging.JPEG, imaging.JPEGQuality(p.Quality)); err != nil {
		return "", fmt.Errorf("failed to encode frame: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (p *Pipeline) locate(ctx context.Context) (float64, float64, error) {
	if p.Locator == nil {
		return 0, 0, errors.New("no locator")
	}
	ctx, cancel := context.WithTimeout(ctx, p.LocationWait)
	defer cancel()
	return p.Locator.Current(ctx)
}
