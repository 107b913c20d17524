// Package pipeline sequences the guarded question-answering flow: evidence
// build, primary gate, blacklist gate, runtime answer, with a durable audit
// trail around every stage.
package pipeline

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/campusgate/campusgate/internal/domain"
	"github.com/campusgate/campusgate/internal/metrics"
)

// Service is the request-level orchestrator. Gates run sequentially,
// primary first: a block from either is terminal, so running both
// unconditionally would waste a model call on already-doomed requests.
type Service struct {
	builder   ContextBuilder
	primary   Validator
	blacklist Validator
	answerer  Answerer
	logs      LogStore
	messages  MessageStore
	logger    *zap.Logger
}

// New creates the validation pipeline.
func New(
	builder ContextBuilder, primary, blacklist Validator, answerer Answerer,
	logs LogStore, messages MessageStore, logger *zap.Logger,
) *Service {
	return &Service{
		builder:   builder,
		primary:   primary,
		blacklist: blacklist,
		answerer:  answerer,
		logs:      logs,
		messages:  messages,
		logger:    logger,
	}
}

// Ask runs one user message through the full pipeline and returns either a
// grounded answer or the standard rejection text. Blocked queries are not
// errors: callers cannot distinguish a block from a refusal at the response
// level, only the log records which occurred. An error return means the
// request failed and the log entry carries the detail.
func (s *Service) Ask(ctx context.Context, message string) (string, error) {
	rec := newRecorder(ctx, s.logs, message, s.logger)

	sc := s.builder.Build(ctx, message)

	for _, g := range []Validator{s.primary, s.blacklist} {
		verdict, err := g.Evaluate(ctx, sc, rec)
		if err != nil {
			rec.Finalize(ctx, domain.StatusError, "", "", err.Error())
			metrics.RequestsTotal.WithLabelValues(string(domain.StatusError)).Inc()
			return "", err
		}
		if !verdict.Allowed {
			rejection := s.RejectionMessage(ctx)
			rec.Finalize(ctx, domain.StatusBlocked, rejection, verdict.Stage.AgentKey(), "")
			metrics.RequestsTotal.WithLabelValues(string(domain.StatusBlocked)).Inc()
			s.logger.Info("query blocked",
				zap.String("stage", string(verdict.Stage)),
				zap.String("reasoning", verdict.Reasoning))
			return rejection, nil
		}
	}

	content, err := s.answerer.Answer(ctx, sc, rec)
	if err != nil {
		rec.Finalize(ctx, domain.StatusError, "", "", err.Error())
		metrics.RequestsTotal.WithLabelValues(string(domain.StatusError)).Inc()
		return "", err
	}

	rec.Finalize(ctx, domain.StatusAnswered, content, "", "")
	metrics.RequestsTotal.WithLabelValues(string(domain.StatusAnswered)).Inc()

	return content, nil
}

// RejectionMessage resolves the current standard rejection text from the
// message store, falling back to the built-in default.
func (s *Service) RejectionMessage(ctx context.Context) string {
	text, err := s.messages.Message(ctx, domain.RejectionMessageKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("rejection message lookup failed", zap.Error(err))
		}
		return domain.StandardRejectionMessage
	}
	return text
}
