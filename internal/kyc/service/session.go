package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kycdid/internal/identity/keys"
	"kycdid/internal/identity/proof"
	"kycdid/internal/kyc/models"
	"kycdid/internal/kyc/validation"
	"kycdid/internal/kyc/verifier"
	"kycdid/internal/ledger"
	"kycdid/internal/platform/tracer"
	id "kycdid/pkg/domain"
	"kycdid/pkg/platform/audit"
	"kycdid/pkg/platform/middleware/requesttime"
)

// Session is one KYC attempt. Stage and completion calls are serialized; a
// failed call leaves the session exactly as it was.
type Session struct {
	svc *Service
	id  id.SessionID

	mu     sync.Mutex
	status models.StageStatus
	claims models.Claims
	result *Result
}

func (s *Service) NewSession() *Session {
	return &Session{svc: s, id: id.NewSessionID()}
}

func (s *Session) ID() id.SessionID { return s.id }

func (s *Session) Status() models.StageStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Claims returns a shallow copy of the accepted claims.
func (s *Session) Claims() models.Claims {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims
}

// stage runs fn under the session lock. fn commits its claim only after every
// check and backend call succeeded.
func (s *Session) stage(ctx context.Context, stage models.Stage, fn func(ctx context.Context, now time.Time) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Done(stage) {
		return &models.StageAlreadyCompleteError{Stage: stage}
	}

	ctx, span := s.svc.tracer.Start(ctx, tracer.SpanKYCStage,
		tracer.String(tracer.AttrStage, stage.String()),
		tracer.String(tracer.AttrSessionID, s.id.String()),
	)
	defer func() {
		span.End(err)
		s.svc.observeStage(ctx, s.id, stage, err)
	}()

	if err := fn(ctx, requesttime.Now(ctx)); err != nil {
		return err
	}
	s.status.Mark(stage)
	return nil
}

func (s *Session) SubmitPersonalInfo(ctx context.Context, in models.PersonalInfo) error {
	return s.stage(ctx, models.StagePersonalInfo, func(_ context.Context, now time.Time) error {
		claim, err := validation.PersonalInfo(in, now)
		if err != nil {
			return err
		}
		s.claims.Personal = claim
		return nil
	})
}

// SubmitIdentityDocuments verifies every document concurrently. When several
// are rejected the error names the first in submission order.
func (s *Session) SubmitIdentityDocuments(ctx context.Context, docs []models.Document) error {
	return s.stage(ctx, models.StageIdentityDocuments, func(ctx context.Context, _ time.Time) error {
		primary, err := validation.IdentityDocuments(docs)
		if err != nil {
			return err
		}

		results := make([]verifier.Result, len(docs))
		g, gctx := errgroup.WithContext(ctx)
		for i, doc := range docs {
			g.Go(func() error {
				res, err := s.svc.verifyDocument(gctx, doc)
				if err != nil {
					return fmt.Errorf("verify document %d: %w", i, err)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		verified := make([]models.VerifiedDocument, len(docs))
		for i, res := range results {
			if !res.Valid {
				return &models.DocumentVerificationFailedError{Kind: docs[i].Kind, Index: i}
			}
			verified[i] = models.VerifiedDocument{
				Kind:           docs[i].Kind,
				Number:         docs[i].Number,
				IssuingCountry: docs[i].IssuingCountry,
				Confidence:     res.Confidence,
			}
		}
		s.claims.Documents = &models.DocumentsClaim{Documents: verified, Primary: verified[primary]}
		return nil
	})
}

func (s *Session) SubmitAddress(ctx context.Context, in models.Address) error {
	return s.stage(ctx, models.StageAddressVerification, func(ctx context.Context, _ time.Time) error {
		if err := validation.Address(in); err != nil {
			return err
		}
		ctx, span := s.svc.tracer.Start(ctx, tracer.SpanVerifyAddress,
			tracer.String(tracer.AttrDocumentKind, string(in.ProofDocument.Kind)))
		res, err := s.svc.backend.VerifyAddressProof(ctx, in)
		span.End(err)
		if err != nil {
			return fmt.Errorf("verify address proof: %w", err)
		}
		if !res.Valid {
			return &models.AddressProofRejectedError{Kind: in.ProofDocument.Kind}
		}
		s.claims.Address = &models.AddressClaim{
			Street:     in.Street,
			City:       in.City,
			State:      in.State,
			PostalCode: in.PostalCode,
			Country:    in.Country,
			ProofKind:  in.ProofDocument.Kind,
			Confidence: res.Confidence,
		}
		return nil
	})
}

func (s *Session) SubmitFinancialInfo(ctx context.Context, in models.FinancialInfo) error {
	return s.stage(ctx, models.StageFinancialInfo, func(context.Context, time.Time) error {
		claim, err := validation.FinancialInfo(in)
		if err != nil {
			return err
		}
		s.claims.Financial = claim
		return nil
	})
}

// SubmitPaymentMethod retains only the last four digits, bank and card type.
func (s *Session) SubmitPaymentMethod(ctx context.Context, in models.PaymentMethod) error {
	return s.stage(ctx, models.StagePaymentMethod, func(ctx context.Context, _ time.Time) error {
		if err := validation.PaymentMethod(in); err != nil {
			return err
		}
		ctx, span := s.svc.tracer.Start(ctx, tracer.SpanVerifyPayment)
		res, err := s.svc.backend.VerifyPaymentMethod(ctx, in)
		span.End(err)
		if err != nil {
			return fmt.Errorf("verify payment method: %w", err)
		}
		if !res.Valid {
			return &models.PaymentMethodRejectedError{CardType: in.CardType}
		}
		s.claims.Payment = validation.PaymentClaim(in)
		return nil
	})
}

func (s *Session) SubmitConsents(ctx context.Context, in models.Consents) error {
	return s.stage(ctx, models.StageConsents, func(_ context.Context, now time.Time) error {
		claim, err := validation.Consents(in, now)
		if err != nil {
			return err
		}
		s.claims.Consent = claim
		return nil
	})
}

// Complete derives the keypair, issues the credentials, funds the account and
// publishes the registration. kycComplete is set only when every step
// succeeded; a failed completion can be retried and derives afresh.
func (s *Session) Complete(ctx context.Context) (res Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.KYCComplete {
		return Result{}, &models.StageAlreadyCompleteError{Stage: models.StageKYCComplete}
	}
	if pending := s.status.Pending(); len(pending) > 0 {
		return Result{}, &models.KYCIncompleteError{Pending: pending}
	}

	now := requesttime.Now(ctx)
	start := time.Now()
	ctx, span := s.svc.tracer.Start(ctx, tracer.SpanKYCComplete, tracer.String(tracer.AttrSessionID, s.id.String()))
	defer func() {
		span.End(err)
		s.svc.observeCompletion(ctx, s.id, res, err, time.Since(start))
	}()

	kp, err := s.svc.derive(ctx, s.claims, now)
	if err != nil {
		return Result{}, err
	}
	set, err := s.svc.issuer.Issue(s.claims, kp.DID, now)
	if err != nil {
		return Result{}, err
	}
	subject, err := proof.NewSubject(s.claims, now)
	if err != nil {
		return Result{}, err
	}

	if _, err := s.svc.publisher.EnsureFunded(ctx, kp.Address); err != nil {
		return Result{}, err
	}
	record, err := s.svc.publisher.Publish(ctx, kp, ledger.Metadata{
		DID:             kp.DID.String(),
		CredentialTypes: set.Types(),
		VerifiedAt:      now,
		KYCVerified:     true,
	})
	if err != nil {
		return Result{}, err
	}

	res = Result{
		SessionID:             s.id,
		DID:                   kp.DID,
		Address:               kp.Address,
		PublicKey:             kp.PublicKey,
		VerifiableCredentials: set.Keys(),
		Credentials:           set,
		PublishResult:         record,
		KYCTimestamp:          now,
		Subject:               subject,
	}
	s.result = &res
	s.status.Mark(models.StageKYCComplete)
	return res, nil
}

// Proof answers one identity question about the completed subject.
func (s *Session) Proof(ctx context.Context, kind proof.Kind) (proof.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.status.KYCComplete || s.result == nil {
		return proof.Response{}, &models.KYCNotCompleteError{}
	}
	return s.svc.Respond(ctx, s.id.String(), s.result.DID, s.result.Subject, kind)
}

// Respond builds a proof for a stored subject. Sessions and the registration
// lookup share it so both emit the same audit trail.
func (s *Service) Respond(ctx context.Context, sessionID string, did id.DID, subject proof.Subject, kind proof.Kind) (resp proof.Response, err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanProofResponse, tracer.String(tracer.AttrProofKind, string(kind)))
	defer func() { span.End(err) }()

	resp, err = proof.Respond(did, subject, kind, requesttime.Now(ctx))
	if err != nil {
		return proof.Response{}, err
	}
	s.metrics.ObserveProof(string(kind))
	s.emit(ctx, audit.Event{
		SessionID: sessionID,
		Subject:   did.String(),
		Action:    string(audit.EventProofIssued),
		Reason:    string(kind),
	})
	return resp, nil
}

func (s *Service) verifyDocument(ctx context.Context, doc models.Document) (res verifier.Result, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanVerifyDocument,
		tracer.String(tracer.AttrDocumentKind, string(doc.Kind)),
		tracer.String(tracer.AttrDocumentHash, tracer.Hash(doc.Number)),
	)
	defer func() {
		if err == nil {
			span.SetAttributes(tracer.Bool(tracer.AttrValid, res.Valid), tracer.Float64(tracer.AttrConfidence, res.Confidence))
		}
		span.End(err)
	}()
	return s.backend.VerifyDocument(ctx, doc)
}

func (s *Service) derive(ctx context.Context, claims models.Claims, now time.Time) (kp *keys.Keypair, err error) {
	_, span := s.tracer.Start(ctx, tracer.SpanKeyDerivation,
		tracer.Bool("did.fresh", s.deriver.BindsFreshness()),
		tracer.String(tracer.AttrDIDMethod, s.deriver.Namespace()),
	)
	defer func() { span.End(err) }()

	return s.deriver.Derive(keys.Material{
		FirstName:      claims.Personal.FirstName,
		LastName:       claims.Personal.LastName,
		DateOfBirth:    claims.Personal.DateOfBirth,
		Nationality:    claims.Personal.Nationality,
		DocumentNumber: claims.Documents.Primary.Number,
	}, now)
}
