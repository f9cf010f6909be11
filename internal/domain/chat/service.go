package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"lakshya/internal/domain/transaction"
	"lakshya/internal/shared/i18n"
)

// Completer is the generative completion endpoint.
type Completer interface {
	Complete(ctx context.Context, system, input string) (string, error)
}

// TransactionCreator persists the extracted transaction. The implementation
// is expected to invalidate the transaction list cache on success.
type TransactionCreator interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

// Service is the transaction-ingestion pipeline: one free-text utterance in,
// one assistant reply out, with the extracted transaction persisted along
// the way.
type Service struct {
	ai           Completer
	transactions TransactionCreator
	conv         *Conversation
	bundle       *i18n.Bundle
	lang         string
	log          *logrus.Logger

	tracer   trace.Tracer
	ingested metric.Int64Counter
}

// NewService builds the pipeline for one chat session. Unknown languages
// fall back to English.
func NewService(ai Completer, transactions TransactionCreator, bundle *i18n.Bundle, lang string, log *logrus.Logger) *Service {
	if !bundle.Supported(lang) {
		lang = i18n.DefaultLanguage
	}

	meter := otel.Meter("lakshya/chat")
	ingested, err := meter.Int64Counter("chat_transactions_ingested_total",
		metric.WithDescription("Transactions persisted from chat turns"))
	if err != nil {
		log.WithError(err).Warn("failed to create ingestion counter")
	}

	return &Service{
		ai:           ai,
		transactions: transactions,
		conv:         NewConversation(bundle.T(lang, i18n.KeyGreeting)),
		bundle:       bundle,
		lang:         lang,
		log:          log,
		tracer:       otel.Tracer("lakshya/chat"),
		ingested:     ingested,
	}
}

// Conversation returns the session transcript.
func (s *Service) Conversation() *Conversation {
	return s.conv
}

// Language returns the resolved language of this session.
func (s *Service) Language() string {
	return s.lang
}

// HandleTurn runs one conversation turn: append the user message, call the
// model, decode and default the extraction, persist it, and append the
// assistant reply. The steps run strictly in that order. Any failure after
// the user message is appended recovers here into a localized apology; the
// user message stays in the transcript either way.
//
// Blank input is a no-op and returns ok=false.
func (s *Service) HandleTurn(ctx context.Context, input string) (Message, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Message{}, false
	}

	s.conv.Append(input, true, nil)

	reply, err := s.runTurn(ctx, input)
	if err != nil {
		var malformedErr *MalformedExtractionError
		if errors.As(err, &malformedErr) {
			s.log.WithField("field", malformedErr.Field).WithError(err).Error("model output failed validation")
		} else {
			s.log.WithError(err).Error("chat turn failed")
		}
		return s.conv.Append(s.bundle.T(s.lang, i18n.KeyTurnFailed), false, nil), true
	}

	return reply, true
}

func (s *Service) runTurn(ctx context.Context, input string) (Message, error) {
	ctx, span := s.tracer.Start(ctx, "chat.turn",
		trace.WithAttributes(attribute.String("chat.language", s.lang)))
	defer span.End()

	raw, err := s.ai.Complete(ctx, SystemPrompt(s.lang), input)
	if err != nil {
		return Message{}, err
	}

	env, err := DecodeEnvelope(raw)
	if err != nil {
		return Message{}, err
	}

	if env.Message == "" {
		env.Message = s.bundle.T(s.lang, i18n.KeyNotUnderstood)
	}

	if env.Extraction != nil {
		params := env.Extraction.CreateParams()
		if _, err := s.transactions.Create(ctx, params); err != nil {
			return Message{}, err
		}
		if s.ingested != nil {
			s.ingested.Add(ctx, 1)
		}
		s.log.WithFields(logrus.Fields{
			"amount":   params.Amount,
			"category": params.SpentCategory,
			"receiver": params.Receiver,
		}).Debug("transaction ingested from chat")
	}

	return s.conv.Append(env.Message, false, env.Extraction), nil
}
