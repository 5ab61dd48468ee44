package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
	"snapsolve/internal/llm/client"
	"snapsolve/internal/llm/prompts"
	"snapsolve/internal/llm/reply"
	"snapsolve/internal/logging"
	"snapsolve/internal/models"
	"snapsolve/internal/repositories"
	"snapsolve/internal/screenshots"
	"snapsolve/internal/utils"
)

const (
	requestTemperature = 0.2
	maxRetries         = 2
	defaultRetryDelay  = 750 * time.Millisecond
)

// ClientFactory builds the provider client for one request.
type ClientFactory func(ctx context.Context, opts client.Options) (client.VisionClient, error)

// ProcessingService turns queued screenshots into solutions. It owns the
// request lifecycle: one outstanding request per mode, retries for transient
// failures, and cancellation that discards late results.
type ProcessingService struct {
	context   context.Context
	cfg       *config.Store
	problems  repositories.ProblemRepository
	queues    *screenshots.Manager
	prompts   *prompts.Set
	views     *ViewService
	emitter   events.Emitter
	newClient ClientFactory

	tokens     *tokenSet
	persistMu  sync.Mutex
	retryDelay time.Duration
	log        *zap.SugaredLogger
}

func NewProcessingService(cfg *config.Store, problems repositories.ProblemRepository, queues *screenshots.Manager, promptSet *prompts.Set, views *ViewService, emitter events.Emitter) *ProcessingService {
	if emitter == nil {
		emitter = events.Discard
	}
	return &ProcessingService{
		cfg:        cfg,
		problems:   problems,
		queues:     queues,
		prompts:    promptSet,
		views:      views,
		emitter:    emitter,
		newClient:  client.New,
		tokens:     newTokenSet(),
		retryDelay: defaultRetryDelay,
		log:        logging.L().Named("processing"),
	}
}

func (s *ProcessingService) Startup(ctx context.Context) error {
	s.context = ctx
	if s.cfg == nil {
		return fmt.Errorf("config store not configured")
	}
	if s.problems == nil {
		return fmt.Errorf("problem repository not configured")
	}
	if s.prompts == nil {
		return fmt.Errorf("prompts not configured")
	}
	return nil
}

// SetClientFactory replaces the provider client constructor.
func (s *ProcessingService) SetClientFactory(f ClientFactory) {
	if f == nil {
		f = client.New
	}
	s.newClient = f
}

// SetRetryDelay sets the base delay between retries; the nth retry waits n
// times this long.
func (s *ProcessingService) SetRetryDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.retryDelay = d
}

// Busy reports whether a request for mode is in flight.
func (s *ProcessingService) Busy(mode models.Mode) bool {
	return s.tokens.busy(mode)
}

// Solve runs the initial pipeline over paths and replaces the stored
// problem on success. Errors are always *PipelineError.
func (s *ProcessingService) Solve(ctx context.Context, paths []string, language string) (*models.SolutionRecord, error) {
	tok := s.tokens.begin(ctx, models.ModeInitial)
	defer s.tokens.finish(models.ModeInitial, tok)
	return s.solve(tok, paths, language)
}

func (s *ProcessingService) solve(tok *cancelToken, paths []string, language string) (*models.SolutionRecord, error) {
	cfg, language, pe := s.prepare(language)
	if pe != nil {
		return nil, pe
	}
	images := s.loadImages(paths)
	if len(images) == 0 {
		return nil, errNoValidInput
	}

	system, user, err := s.prompts.Render(models.ModeInitial, prompts.Data{Language: language})
	if err != nil {
		return nil, &PipelineError{Kind: ErrUnknown, Message: "failed to build request", Err: err}
	}

	s.status("Analyzing screenshots...", 30)
	text, pe := s.call(tok, cfg, client.Request{System: system, Prompt: user, Images: images, Temperature: requestTemperature})
	if pe != nil {
		return nil, pe
	}

	s.status("Parsing solution...", 80)
	parsed := reply.Parse(text)
	if len(parsed.Degraded) > 0 {
		s.log.Warnw("reply used fallbacks", "mode", models.ModeInitial, "sections", parsed.Degraded)
	}

	now := time.Now()
	record := &models.SolutionRecord{
		Problem:         parsed.Problem,
		Language:        language,
		Code:            parsed.Code,
		Thoughts:        parsed.Thoughts,
		TimeComplexity:  parsed.TimeComplexity,
		SpaceComplexity: parsed.SpaceComplexity,
		Degraded:        parsed.Degraded,
		CreatedAt:       now,
	}

	err = s.persist(tok, func(ctx context.Context) error {
		return s.problems.Replace(ctx, &models.Problem{
			Statement:   parsed.Problem,
			Constraints: parsed.Constraints,
			Examples:    parsed.Examples,
			Language:    language,
			Code:        parsed.Code,
		})
	})
	if err != nil {
		return nil, AsPipelineError(err)
	}

	s.status("Solution ready", 100)
	return record, nil
}

// Debug follows up on the stored problem with new screenshots and appends
// the result to its attempt chain.
func (s *ProcessingService) Debug(ctx context.Context, paths []string, language string) (*models.DebugRecord, error) {
	tok := s.tokens.begin(ctx, models.ModeDebug)
	defer s.tokens.finish(models.ModeDebug, tok)
	return s.debug(tok, paths, language)
}

func (s *ProcessingService) debug(tok *cancelToken, paths []string, language string) (*models.DebugRecord, error) {
	cfg, language, pe := s.prepare(language)
	if pe != nil {
		return nil, pe
	}

	problem, err := s.problems.Current(tok.ctx)
	if err != nil {
		return nil, &PipelineError{Kind: ErrUnknown, Message: "failed to load previous solution", Err: err}
	}
	if problem == nil {
		return nil, errNoPriorContext
	}

	images := s.loadImages(paths)
	if len(images) == 0 {
		return nil, errNoValidInput
	}

	system, user, err := s.prompts.Render(models.ModeDebug, prompts.Data{Language: language, Problem: problem})
	if err != nil {
		return nil, &PipelineError{Kind: ErrUnknown, Message: "failed to build request", Err: err}
	}

	s.status("Debugging solution...", 30)
	text, pe := s.call(tok, cfg, client.Request{System: system, Prompt: user, Images: images, Temperature: requestTemperature})
	if pe != nil {
		return nil, pe
	}

	s.status("Parsing debug reply...", 80)
	parsed := reply.Parse(text)
	if len(parsed.Degraded) > 0 {
		s.log.Warnw("reply used fallbacks", "mode", models.ModeDebug, "sections", parsed.Degraded)
	}

	record := &models.DebugRecord{
		Language:        language,
		Code:            parsed.Code,
		Thoughts:        parsed.Thoughts,
		Issues:          parsed.Issues,
		Improvements:    parsed.Improvements,
		TimeComplexity:  parsed.TimeComplexity,
		SpaceComplexity: parsed.SpaceComplexity,
		Degraded:        parsed.Degraded,
		Attempt:         len(problem.Attempts) + 1,
		CreatedAt:       time.Now(),
	}

	err = s.persist(tok, func(ctx context.Context) error {
		return s.problems.AppendAttempt(ctx, problem.ID, &models.SolveAttempt{
			Code:  parsed.Code,
			Notes: strings.Join(parsed.Issues, "\n"),
		})
	})
	if err != nil {
		return nil, AsPipelineError(err)
	}

	s.status("Debug complete", 100)
	return record, nil
}

// ProcessPrimary solves whatever is in the primary queue and reports the
// outcome through events.
func (s *ProcessingService) ProcessPrimary(ctx context.Context) error {
	paths := s.queuePaths(models.QueuePrimary)
	if len(paths) == 0 {
		s.emitter.Emit(events.NoScreenshots)
		return errNoValidInput
	}

	s.emitter.Emit(events.InitialStart)
	s.status("Starting analysis...", 10)

	tok := s.tokens.begin(ctx, models.ModeInitial)
	defer s.tokens.finish(models.ModeInitial, tok)

	record, err := s.solve(tok, paths, "")
	if err != nil {
		pe := AsPipelineError(err)
		s.report(pe, events.InitialSolutionError, models.ViewQueue)
		return pe
	}

	delivered := s.deliver(tok, func() {
		s.emitter.Emit(events.SolutionSuccess, record)
		s.setView(models.ViewSolutions)
	})
	if !delivered {
		return errCanceled
	}
	return nil
}

// ProcessAuxiliary debugs the stored problem using both queues, primary
// captures first.
func (s *ProcessingService) ProcessAuxiliary(ctx context.Context) error {
	extra := s.queuePaths(models.QueueAuxiliary)
	if len(extra) == 0 {
		s.emitter.Emit(events.NoScreenshots)
		return errNoValidInput
	}

	s.emitter.Emit(events.DebugStart)
	s.status("Starting debug...", 10)

	tok := s.tokens.begin(ctx, models.ModeDebug)
	defer s.tokens.finish(models.ModeDebug, tok)

	paths := append(s.queuePaths(models.QueuePrimary), extra...)
	record, err := s.debug(tok, paths, "")
	if err != nil {
		pe := AsPipelineError(err)
		s.report(pe, events.DebugError, models.ViewSolutions)
		return pe
	}

	delivered := s.deliver(tok, func() {
		s.emitter.Emit(events.DebugSuccess, record)
		s.setView(models.ViewDebug)
	})
	if !delivered {
		return errCanceled
	}
	return nil
}

// deliver runs emit unless tok was fired after the result was stored. It
// shares persistMu with cancel, so a cancel either lands first and the
// success events are dropped, or lands after them and wins the view.
func (s *ProcessingService) deliver(tok *cancelToken, emit func()) bool {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if tok.fired.Load() {
		s.log.Infow("dropping result of canceled request", "token", tok.gen)
		return false
	}
	emit()
	return true
}

// Cancel stops every in-flight request, forgets the stored problem and
// tells the UI to return to an empty queue view. Safe to call at any time.
func (s *ProcessingService) Cancel() {
	s.cancel()
}

// CancelMode stops the request for one mode only.
func (s *ProcessingService) CancelMode(mode models.Mode) {
	s.cancel(mode)
}

// Stop aborts in-flight requests without touching history or the UI. Used
// at shutdown.
func (s *ProcessingService) Stop() {
	s.tokens.cancel()
}

func (s *ProcessingService) cancel(modes ...models.Mode) {
	s.persistMu.Lock()
	n := s.tokens.cancel(modes...)
	if err := s.problems.Clear(context.Background()); err != nil {
		s.log.Errorw("failed to clear problem history", "error", err)
	}
	s.persistMu.Unlock()

	s.log.Infow("requests canceled", "inFlight", n)
	s.emitter.Emit(events.NoScreenshots)
	s.setView(models.ViewQueue)
}

func (s *ProcessingService) prepare(language string) (config.Config, string, *PipelineError) {
	cfg := s.cfg.Get()
	if !cfg.IsConfigured() {
		return cfg, "", errNotConfigured
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = cfg.Language
	}
	return cfg, language, nil
}

// call builds the client and runs the request with retries. Cancellation is
// checked before each attempt, while waiting to retry and after the reply.
func (s *ProcessingService) call(tok *cancelToken, cfg config.Config, req client.Request) (string, *PipelineError) {
	if tok.Canceled() {
		return "", errCanceled
	}

	vc, err := s.newClient(tok.ctx, client.OptionsFromConfig(cfg))
	if err != nil {
		return "", &PipelineError{Kind: ErrNotConfigured, Message: "failed to create AI client", Err: err}
	}

	timeout := cfg.RequestTimeout()
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			s.log.Warnw("retrying request", "provider", vc.Name(), "attempt", attempt, "error", lastErr)
			s.status(fmt.Sprintf("Retrying (%d/%d)...", attempt, maxRetries), 30+attempt*10)
			if !s.wait(tok, time.Duration(attempt)*s.retryDelay) {
				return "", errCanceled
			}
		}
		if tok.Canceled() {
			return "", errCanceled
		}

		attemptCtx, cancel := context.WithTimeout(tok.ctx, timeout)
		text, err := vc.Complete(attemptCtx, req)
		cancel()

		if tok.Canceled() {
			s.log.Infow("discarding reply for canceled request", "token", tok.gen)
			return "", errCanceled
		}
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !client.IsTransient(err) {
			break
		}
	}
	return "", classifyUpstream(lastErr)
}

func (s *ProcessingService) wait(tok *cancelToken, d time.Duration) bool {
	if d <= 0 {
		return !tok.Canceled()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return !tok.Canceled()
	case <-tok.ctx.Done():
		return false
	}
}

// persist runs write unless tok was canceled. Cancel holds the same lock
// while clearing history, so a canceled result never lands.
func (s *ProcessingService) persist(tok *cancelToken, write func(ctx context.Context) error) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if tok.Canceled() {
		return errCanceled
	}
	if err := write(context.Background()); err != nil {
		return &PipelineError{Kind: ErrUnknown, Message: "failed to save result", Err: err}
	}
	return nil
}

func (s *ProcessingService) loadImages(paths []string) []client.Image {
	images := make([]client.Image, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			s.log.Warnw("skipping unreadable screenshot", "path", p, "error", err)
			continue
		}
		mime := utils.SniffImageMimeType(data)
		if mime == "" {
			s.log.Warnw("skipping non-image file", "path", p)
			continue
		}
		images = append(images, client.Image{MimeType: mime, Data: data})
	}
	return images
}

func (s *ProcessingService) queuePaths(kind models.QueueKind) []string {
	if s.queues == nil {
		return nil
	}
	q, err := s.queues.Queue(kind)
	if err != nil {
		return nil
	}
	return q.List()
}

func (s *ProcessingService) report(pe *PipelineError, event string, view models.View) {
	switch pe.Kind {
	case ErrCanceled:
		return
	case ErrNotConfigured, ErrUnauthorized:
		s.emitter.Emit(events.APIKeyInvalid)
	}
	s.log.Errorw("processing failed", "kind", pe.Kind, "error", pe)
	s.emitter.Emit(event, pe.Message, events.ErrorPayload{Kind: string(pe.Kind), Message: pe.Message})
	s.setView(view)
}

func (s *ProcessingService) status(message string, progress int) {
	s.emitter.Emit(events.ProcessingStatus, events.NewInfo(message, progress))
}

func (s *ProcessingService) setView(v models.View) {
	if s.views != nil {
		s.views.Set(v)
	}
}
