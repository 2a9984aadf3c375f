package models

import (
	"fmt"
	"strings"

	dErrors "kycdid/pkg/domain-errors"
)

// Each error below unwraps to a *dErrors.Error so transports can map it by code.

// ValidationError names every missing or malformed field of a stage input.
type ValidationError struct {
	Stage  Stage
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing or invalid fields: %s", e.Stage, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeValidation, Message: e.Error()}
}

type IneligibleAgeError struct {
	Age int
}

func (e *IneligibleAgeError) Error() string {
	return fmt.Sprintf("applicant age %d is below the minimum of 18", e.Age)
}

func (e *IneligibleAgeError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeIneligibleAge, Message: e.Error()}
}

type MissingRequiredDocumentError struct {
	Submitted []DocumentKind
}

func (e *MissingRequiredDocumentError) Error() string {
	return "no government issued ID among submitted documents"
}

func (e *MissingRequiredDocumentError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeMissingRequiredDocument, Message: e.Error()}
}

type DocumentVerificationFailedError struct {
	Kind  DocumentKind
	Index int
}

func (e *DocumentVerificationFailedError) Error() string {
	return fmt.Sprintf("document %d (%s) failed verification", e.Index, e.Kind)
}

func (e *DocumentVerificationFailedError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeDocumentVerificationFailed, Message: e.Error()}
}

type AddressProofRejectedError struct {
	Kind DocumentKind
}

func (e *AddressProofRejectedError) Error() string {
	return fmt.Sprintf("address proof (%s) was rejected", e.Kind)
}

func (e *AddressProofRejectedError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeAddressProofRejected, Message: e.Error()}
}

// PaymentMethodRejectedError is returned when the backend declines the card.
type PaymentMethodRejectedError struct {
	CardType string
}

func (e *PaymentMethodRejectedError) Error() string {
	return fmt.Sprintf("payment method (%s) was rejected", e.CardType)
}

func (e *PaymentMethodRejectedError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeValidation, Message: e.Error()}
}

type MissingConsentError struct {
	Consents []string
}

func (e *MissingConsentError) Error() string {
	return "missing consents: " + strings.Join(e.Consents, ", ")
}

func (e *MissingConsentError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeMissingConsent, Message: e.Error()}
}

// KYCIncompleteError lists every stage still outstanding at completion time.
type KYCIncompleteError struct {
	Pending []Stage
}

func (e *KYCIncompleteError) Error() string {
	names := make([]string, len(e.Pending))
	for i, s := range e.Pending {
		names[i] = s.String()
	}
	return "kyc incomplete, pending stages: " + strings.Join(names, ", ")
}

func (e *KYCIncompleteError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeKYCIncomplete, Message: e.Error()}
}

// Names reports whether stage is among the pending ones.
func (e *KYCIncompleteError) Names(stage Stage) bool {
	for _, s := range e.Pending {
		if s == stage {
			return true
		}
	}
	return false
}

type KYCNotCompleteError struct{}

func (e *KYCNotCompleteError) Error() string {
	return "identity proofs are unavailable until kyc completes"
}

func (e *KYCNotCompleteError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeKYCNotComplete, Message: e.Error()}
}

type StageAlreadyCompleteError struct {
	Stage Stage
}

func (e *StageAlreadyCompleteError) Error() string {
	return fmt.Sprintf("stage %s is already complete", e.Stage)
}

func (e *StageAlreadyCompleteError) Unwrap() error {
	return &dErrors.Error{Code: dErrors.CodeStageAlreadyComplete, Message: e.Error()}
}
