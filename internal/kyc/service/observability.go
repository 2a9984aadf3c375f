package service

import (
	"context"
	"errors"
	"time"

	"kycdid/internal/kyc/metrics"
	"kycdid/internal/kyc/models"
	"kycdid/internal/ledger"
	id "kycdid/pkg/domain"
	dErrors "kycdid/pkg/domain-errors"
	"kycdid/pkg/platform/audit"
)

func (s *Service) observeStage(ctx context.Context, sessionID id.SessionID, stage models.Stage, err error) {
	outcome := stageOutcome(err)
	s.metrics.ObserveStage(stage.String(), outcome)

	event := audit.Event{SessionID: sessionID.String(), Stage: stage.String()}
	if err == nil {
		s.logger.InfoContext(ctx, "kyc stage completed", "stage", stage.String(), "session_id", sessionID.String())
		event.Action = string(audit.EventStageCompleted)
	} else {
		s.logger.WarnContext(ctx, "kyc stage failed", "stage", stage.String(), "session_id", sessionID.String(), "outcome", outcome, "error", err)
		event.Action = string(audit.EventStageFailed)
		event.Reason = string(dErrors.CodeOf(err))
	}
	s.emit(ctx, event)
}

func (s *Service) observeCompletion(ctx context.Context, sessionID id.SessionID, res Result, err error, took time.Duration) {
	s.metrics.ObserveCompletion(took)

	var rejected *ledger.PublishRejectedError
	switch {
	case err == nil:
		s.metrics.ObservePublication(ledger.ResultSuccess)
		s.logger.InfoContext(ctx, "did registered",
			"session_id", sessionID.String(),
			"did", res.DID.String(),
			"tx_hash", res.PublishResult.TransactionHash,
		)
		s.emit(ctx, audit.Event{
			SessionID: sessionID.String(),
			Subject:   res.DID.String(),
			Action:    string(audit.EventDIDRegistered),
			Reason:    res.PublishResult.TransactionHash,
		})
		return
	case errors.As(err, &rejected):
		s.metrics.ObservePublication(rejected.Code)
	case dErrors.HasCode(err, dErrors.CodeFundingTimeout):
		s.metrics.ObservePublication("funding_timeout")
	}
	s.logger.WarnContext(ctx, "kyc completion failed", "session_id", sessionID.String(), "error", err)
	s.emit(ctx, audit.Event{
		SessionID: sessionID.String(),
		Stage:     models.StageKYCComplete.String(),
		Action:    string(audit.EventStageFailed),
		Reason:    string(dErrors.CodeOf(err)),
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

func stageOutcome(err error) string {
	var (
		docRejected  *models.DocumentVerificationFailedError
		addrRejected *models.AddressProofRejectedError
		pmRejected   *models.PaymentMethodRejectedError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &docRejected), errors.As(err, &addrRejected), errors.As(err, &pmRejected):
		return metrics.OutcomeRejected
	case dErrors.HasCode(err, dErrors.CodeValidation),
		dErrors.HasCode(err, dErrors.CodeIneligibleAge),
		dErrors.HasCode(err, dErrors.CodeMissingRequiredDocument),
		dErrors.HasCode(err, dErrors.CodeMissingConsent),
		dErrors.HasCode(err, dErrors.CodeStageAlreadyComplete):
		return metrics.OutcomeInvalid
	}
	return metrics.OutcomeError
}
