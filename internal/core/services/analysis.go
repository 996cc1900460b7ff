package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/insight-core/internal/core/domain"
	"github.com/custodia-labs/insight-core/internal/core/ports/driven"
	"github.com/custodia-labs/insight-core/internal/core/ports/driving"
)

// Ensure analysisService implements AnalysisService
var _ driving.AnalysisService = (*analysisService)(nil)

// analysisService runs the pipeline stages in order: reduce, classify,
// extract, synthesize, aggregate. Stages run sequentially and synchronously
// within one request; independent uploads do not share mutable state beyond
// the session store.
type analysisService struct {
	reducer     *Reducer
	classifier  *Classifier
	extractor   *Extractor
	synthesizer *Synthesizer
	aggregator  *Aggregator
	sessions    driven.SessionStore
	completion  driven.CompletionService
	sessionTTL  time.Duration
	logger      *slog.Logger
}

// AnalysisConfig wires the pipeline's collaborators
type AnalysisConfig struct {
	Budget     domain.TokenBudget
	Completion driven.CompletionService
	Sessions   driven.SessionStore

	// SessionTTL overrides how long sessions live. Zero means
	// domain.DefaultSessionTTL.
	SessionTTL time.Duration

	Logger *slog.Logger
}

// NewAnalysisService creates the pipeline orchestrator
func NewAnalysisService(cfg AnalysisConfig) driving.AnalysisService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTL
	}
	return &analysisService{
		reducer:     NewReducer(cfg.Budget, cfg.Completion, logger),
		classifier:  NewClassifier(cfg.Completion, cfg.Budget),
		extractor:   NewExtractor(cfg.Completion, cfg.Budget),
		synthesizer: NewSynthesizer(cfg.Completion, cfg.Budget),
		aggregator:  NewAggregator(logger),
		sessions:    cfg.Sessions,
		completion:  cfg.Completion,
		sessionTTL:  ttl,
		logger:      logger,
	}
}

// Analyze runs the full pipeline over an extracted document. Stage failures
// are recorded on the session (failed state, stage name, reason) and returned
// wrapped with stage context; a no-data verdict is a successful result.
func (s *analysisService) Analyze(ctx context.Context, doc *domain.ExtractedDocument) (*domain.AnalysisResult, error) {
	start := time.Now()

	session := domain.NewSession(uuid.NewString(), doc)
	session.ExpiresAt = session.CreatedAt.Add(s.sessionTTL)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	reduced := s.reducer.Reduce(ctx, doc.Text)
	if reduced.WasReduced {
		s.logger.Info("document text reduced",
			"session", session.ID,
			"strategy", reduced.Strategy,
			"original_chars", len(doc.Text),
			"reduced_chars", len(reduced.Content))
	}

	info := domain.ProcessingInfo{
		Strategy:       reduced.Strategy,
		WasReduced:     reduced.WasReduced,
		OriginalLength: len(doc.Text),
		ReducedLength:  len(reduced.Content),
		Model:          s.completion.Model(),
	}

	verdict, err := s.classifier.Classify(ctx, reduced)
	if err != nil {
		return nil, s.fail(ctx, session, "classification", err)
	}
	session.Verdict = &verdict

	if !verdict.HasData {
		session.State = domain.StateNoData
		s.save(ctx, session)
		info.DurationMS = time.Since(start).Milliseconds()
		return &domain.AnalysisResult{
			SessionID:  session.ID,
			HasData:    false,
			Reason:     verdict.Reason,
			Processing: info,
		}, nil
	}

	session.State = domain.StateClassified
	s.save(ctx, session)

	extraction, err := s.extractor.Extract(ctx, reduced.Content, verdict)
	if err != nil {
		return nil, s.fail(ctx, session, "extraction", err)
	}
	if extraction.Metadata.DataSource == "" {
		extraction.Metadata.DataSource = doc.FileName
	}
	session.Extraction = extraction
	session.State = domain.StateExtracted
	s.save(ctx, session)

	config, err := s.synthesizer.Synthesize(ctx, extraction)
	if err != nil {
		return nil, s.fail(ctx, session, "config_synthesis", err)
	}
	session.Dashboard = config
	session.State = domain.StateReady
	s.save(ctx, session)

	kpis := s.aggregator.ComputeKPIs(extraction.Data, config.KPIs)
	charts := s.aggregator.ComputeCharts(extraction.Data, config.Charts)

	info.DurationMS = time.Since(start).Milliseconds()
	return &domain.AnalysisResult{
		SessionID:  session.ID,
		HasData:    true,
		Data:       extraction.Data,
		Schema:     &extraction.Schema,
		Config:     config,
		KPIs:       kpis,
		Charts:     charts,
		Insights:   config.Insights,
		Summary:    config.Summary,
		Processing: info,
	}, nil
}

// fail records a stage failure on the session and returns the original error
func (s *analysisService) fail(ctx context.Context, session *domain.Session, stage string, err error) error {
	session.Fail(stage, err.Error())
	s.save(ctx, session)
	s.logger.Error("pipeline stage failed",
		"session", session.ID, "stage", stage, "error", err)
	return err
}

// save persists session state transitions; a store failure must not mask a
// pipeline result, so it is logged and swallowed here
func (s *analysisService) save(ctx context.Context, session *domain.Session) {
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("failed to save session", "session", session.ID, "error", err)
	}
}

// IsNoDataOutcome reports whether an error-free result was a no-data verdict.
// Kept next to Analyze so routing code does not re-derive the distinction.
func IsNoDataOutcome(result *domain.AnalysisResult) bool {
	return result != nil && !result.HasData
}

// IsStageFailure reports whether err came from a pipeline stage (as opposed to
// infrastructure such as the session store)
func IsStageFailure(err error) bool {
	return errors.Is(err, domain.ErrClassificationFailed) ||
		errors.Is(err, domain.ErrExtractionFailed) ||
		errors.Is(err, domain.ErrConfigSynthesisFailed) ||
		errors.Is(err, domain.ErrInsufficientData)
}
