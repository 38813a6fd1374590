package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/basel-ax/archrender/internal/blob"
	"github.com/basel-ax/archrender/internal/domain"
)

// ErrSuperseded is returned by a generate action whose result arrived after a
// newer action had started. Its result is discarded.
var ErrSuperseded = errors.New("generate action superseded by a newer one")

// ErrClosed is returned by actions on, or finishing after, a closed session.
var ErrClosed = errors.New("session closed")

// Session holds the inputs and current result of one user session and runs
// the generate action against the render API.
type Session struct {
	api   domain.RenderAPI
	blobs *blob.Store
	log   zerolog.Logger

	mu     sync.Mutex
	state  domain.SessionState
	closed bool
}

// NewSession creates a session with default inputs
func NewSession(api domain.RenderAPI, blobs *blob.Store, logger zerolog.Logger) *Session {
	return &Session{
		api:   api,
		blobs: blobs,
		log:   logger,
		state: domain.NewSessionState(),
	}
}

// SetImage replaces the selected reference image
func (s *Session) SetImage(img *domain.ImageSelection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Image = img
}

// SetPrompt replaces the prompt text
func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Prompt = prompt
}

// SetPreset replaces the selected preset
func (s *Session) SetPreset(preset domain.Preset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Preset = preset
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	if st.Result != nil {
		r := *st.Result
		st.Result = &r
	}
	if st.Notice != nil {
		n := *st.Notice
		st.Notice = &n
	}
	return st
}

// Result returns the blob of the currently displayed result
func (s *Session) Result() (*blob.Blob, error) {
	s.mu.Lock()
	current := s.state.Result
	s.mu.Unlock()

	if current == nil {
		return nil, blob.ErrNotFound
	}
	return s.blobs.Get(current.ID)
}

// Blob returns a live blob of this session by id
func (s *Session) Blob(id string) (*blob.Blob, error) {
	return s.blobs.Get(id)
}

// Generate validates the inputs, uploads the reference image, requests a
// rendering and displays it. Only the most recently started action may change
// the displayed result.
func (s *Session) Generate(ctx context.Context) (*domain.ResultHandle, error) {
	token, req, err := s.begin()
	if err != nil {
		return nil, err
	}
	return s.run(ctx, token, req)
}

// Start validates the inputs synchronously and runs the rest of the generate
// action in the background. The returned channel yields the outcome once.
// A validation failure is returned directly and nothing is started.
func (s *Session) Start(ctx context.Context) (<-chan Outcome, error) {
	token, req, err := s.begin()
	if err != nil {
		return nil, err
	}

	done := make(chan Outcome, 1)
	go func() {
		handle, err := s.run(ctx, token, req)
		done <- Outcome{Handle: handle, Err: err}
	}()
	return done, nil
}

// Outcome is the result of a background generate action
type Outcome struct {
	Handle *domain.ResultHandle
	Err    error
}

// Close releases the displayed result. Actions still in flight finish
// without installing a result.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.state.Result = nil
	s.mu.Unlock()
	s.blobs.RevokeAll()
}

// begin runs the validation step and, when it passes, stamps a new token and
// enters the uploading phase.
func (s *Session) begin() (uint64, domain.GenerateRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := s.state.Request()
	if s.closed {
		return 0, req, ErrClosed
	}

	busy := s.state.Phase == domain.PhaseUploading || s.state.Phase == domain.PhaseGenerating
	if !busy {
		s.enterLocked(domain.PhaseValidatingInputs)
	}

	if err := req.Validate(); err != nil {
		if !busy {
			s.enterLocked(domain.PhaseIdle)
		}
		s.state.Notice = &domain.Notice{Level: domain.NoticeWarning, Message: domain.MsgMissingInputs}
		s.log.Warn().Err(err).Msg("generate blocked")
		return 0, req, err
	}

	s.state.LatestToken++
	s.state.Notice = nil
	s.enterLocked(domain.PhaseUploading)
	return s.state.LatestToken, req, nil
}

func (s *Session) run(ctx context.Context, token uint64, req domain.GenerateRequest) (*domain.ResultHandle, error) {
	log := s.log.With().Uint64("token", token).Logger()

	uploaded, err := s.api.Upload(ctx, req.Image)
	if err != nil {
		s.fail(token, err)
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	log.Info().Str("file_path", uploaded.FilePath).Msg("image uploaded")

	// The stored path is not forwarded; /generate receives the image again.
	s.transition(token, domain.PhaseGenerating)

	generated, err := s.api.Generate(ctx, req)
	if err != nil {
		s.fail(token, err)
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	return s.display(token, generated)
}

func (s *Session) display(token uint64, img *domain.GeneratedImage) (*domain.ResultHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Info().Uint64("token", token).Msg("session closed, discarding result")
		return nil, ErrClosed
	}
	if token != s.state.LatestToken {
		s.log.Info().Uint64("token", token).Uint64("latest", s.state.LatestToken).Msg("discarding stale result")
		return nil, ErrSuperseded
	}

	b := s.blobs.Create(img.Data, img.ContentType)
	handle := &domain.ResultHandle{
		ID:          b.ID,
		URI:         b.URI,
		ContentType: b.ContentType,
		Size:        len(b.Data),
		Token:       token,
	}

	if prev := s.state.Result; prev != nil {
		s.blobs.Revoke(prev.ID)
	}
	s.state.Result = handle
	s.enterLocked(domain.PhaseDisplaying)

	s.log.Info().Uint64("token", token).Str("uri", handle.URI).Int("size", handle.Size).Msg("result displayed")
	r := *handle
	return &r, nil
}

func (s *Session) fail(token uint64, err error) {
	s.log.Error().Err(err).Uint64("token", token).Msg("error generating image")

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.state.LatestToken {
		return
	}
	s.state.Notice = &domain.Notice{Level: domain.NoticeError, Message: domain.MsgGenerationFailed}
	s.enterLocked(domain.PhaseIdle)
}

func (s *Session) transition(token uint64, phase domain.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.state.LatestToken {
		return
	}
	s.enterLocked(phase)
}

func (s *Session) enterLocked(phase domain.Phase) {
	if s.state.Phase == phase {
		return
	}
	s.log.Debug().Str("from", string(s.state.Phase)).Str("to", string(phase)).Msg("phase")
	s.state.Phase = phase
}
