// Package httptransport exposes the KYC-to-DID workflow over HTTP.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"kycdid/internal/identity/keys"
	"kycdid/internal/identity/proof"
	"kycdid/internal/identity/store"
	"kycdid/internal/kyc/models"
	"kycdid/internal/kyc/service"
	id "kycdid/pkg/domain"
	"kycdid/pkg/platform/httputil"
	"kycdid/pkg/requestcontext"
)

// KYCService runs applications and answers proofs.
type KYCService interface {
	Run(ctx context.Context, app models.Application) (service.Result, error)
	Respond(ctx context.Context, sessionID string, did id.DID, subject proof.Subject, kind proof.Kind) (proof.Response, error)
}

// ProofSigner turns a proof answer into a compact token.
type ProofSigner interface {
	Sign(ctx context.Context, resp proof.Response) (string, error)
}

type Handler struct {
	kyc           KYCService
	registrations store.Store
	signer        ProofSigner
	regulatedMode bool
	logger        *slog.Logger
}

type Option func(*Handler)

// WithRegulatedMode truncates consent IP addresses before they reach the core.
func WithRegulatedMode(on bool) Option {
	return func(h *Handler) { h.regulatedMode = on }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func New(kyc KYCService, registrations store.Store, signer ProofSigner, opts ...Option) *Handler {
	h := &Handler{kyc: kyc, registrations: registrations, signer: signer, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/kyc/did", h.HandleCreateDID)
	r.Get("/v1/dids/{did}", h.HandleGetDID)
	r.Get("/v1/dids/{did}/proofs/{kind}", h.HandleGetProof)
}

// HandleCreateDID runs the whole workflow for one application and records
// the resulting registration.
func (h *Handler) HandleCreateDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	app, ok := httputil.DecodeOptionalJSON[models.Application](w, r, h.logger)
	if !ok {
		return
	}
	applyDefaults(ctx, app, h.regulatedMode)

	res, err := h.kyc.Run(ctx, *app)
	if err != nil {
		h.logger.WarnContext(ctx, "kyc run failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	reg := &store.Registration{
		DID:             res.DID,
		Address:         res.Address,
		PublicKey:       res.PublicKey,
		TxHash:          res.PublishResult.TransactionHash,
		ExplorerURL:     res.PublishResult.ExplorerURL,
		URI:             res.PublishResult.URI,
		CredentialTypes: res.PublishResult.Metadata.CredentialTypes,
		KYCTimestamp:    res.KYCTimestamp,
		Subject:         res.Subject,
	}
	if err := h.registrations.Save(ctx, reg); err != nil {
		// The DID is already on the ledger; the caller still gets the result.
		h.logger.ErrorContext(ctx, "failed to store did registration",
			"request_id", requestID,
			"did", res.DID.String(),
			"error", err,
		)
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// RegistrationResponse is the public view of a stored registration.
type RegistrationResponse struct {
	DID             id.DID         `json:"did"`
	Address         string         `json:"address"`
	TxHash          string         `json:"transactionHash"`
	ExplorerURL     string         `json:"explorerUrl,omitempty"`
	URI             string         `json:"uri"`
	CredentialTypes []string       `json:"credentialTypes"`
	KYCTimestamp    time.Time      `json:"kycTimestamp"`
	Document        *keys.Document `json:"didDocument"`
}

func (h *Handler) HandleGetDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	doc, err := keys.NewDocument(reg.DID.String(), reg.PublicKey, proofsPath(reg.DID))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build did document",
			"request_id", requestcontext.RequestID(ctx),
			"did", reg.DID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RegistrationResponse{
		DID:             reg.DID,
		Address:         reg.Address,
		TxHash:          reg.TxHash,
		ExplorerURL:     reg.ExplorerURL,
		URI:             reg.URI,
		CredentialTypes: reg.CredentialTypes,
		KYCTimestamp:    reg.KYCTimestamp.UTC(),
		Document:        doc,
	})
}

// ProofResponse is a proof answer plus its signed token.
type ProofResponse struct {
	proof.Response
	ProofToken string `json:"proof_token"`
}

func (h *Handler) HandleGetProof(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := proof.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reg, ok := h.lookup(w, r)
	if !ok {
		return
	}
	resp, err := h.kyc.Respond(ctx, "", reg.DID, reg.Subject, kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	token, err := h.signer.Sign(ctx, resp)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign proof",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ProofResponse{Response: resp, ProofToken: token})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*store.Registration, bool) {
	ctx := r.Context()
	raw, err := url.PathUnescape(chi.URLParam(r, "did"))
	if err != nil {
		raw = chi.URLParam(r, "did")
	}
	did, err := id.ParseDID(raw)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	reg, err := h.registrations.FindByDID(ctx, did)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	return reg, true
}

func proofsPath(did id.DID) string {
	return "/v1/dids/" + url.PathEscape(did.String()) + "/proofs"
}
