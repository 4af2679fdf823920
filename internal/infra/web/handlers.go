package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nft-drop-redemption/internal/domain"
	"nft-drop-redemption/internal/domain/model"
	"nft-drop-redemption/internal/infra/logging"
	"nft-drop-redemption/internal/infra/metrics"
	"nft-drop-redemption/internal/usecase"

	"github.com/go-chi/chi/v5"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}

// codeView is the JSON shape for a redemption code in admin responses.
type codeView struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	UsedBy        *string    `json:"used_by,omitempty"`
	SettlementRef *string    `json:"settlement_ref,omitempty"`
}

func toCodeView(rc *model.RedemptionCode) codeView {
	return codeView{
		ID:            rc.ID,
		CreatedAt:     rc.CreatedAt,
		UsedAt:        rc.UsedAt,
		UsedBy:        rc.UsedBy,
		SettlementRef: rc.SettlementRef,
	}
}

type createCodesRequest struct {
	Count int `json:"count"`
}

type createdCode struct {
	ID       string `json:"id"`
	ClaimURL string `json:"claim_url"`
}

// handleCreateCodes creates a batch of codes. The count is clamped inside
// the use case; retrying the request creates new codes, never duplicates.
func (s *Server) handleCreateCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	ids, err := s.codeUC.CreateBatch(ctx, req.Count)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("create codes failed")
		writeError(w, http.StatusInternalServerError, "unavailable", "failed to create codes")
		return
	}

	codes := make([]createdCode, 0, len(ids))
	for _, id := range ids {
		u, err := usecase.ClaimURL(s.cfg.Server.ClaimBaseURL, id)
		if err != nil {
			logging.With(ctx, s.log).Error().Err(err).Msg("claim url build failed")
			writeError(w, http.StatusInternalServerError, "unavailable", "failed to create codes")
			return
		}
		codes = append(codes, createdCode{ID: id, ClaimURL: u})
	}

	writeJSON(w, http.StatusCreated, struct {
		Count int           `json:"count"`
		Codes []createdCode `json:"codes"`
	}{
		Count: len(codes),
		Codes: codes,
	})
}

// handleListCodes returns codes newest-first. Accepts a 'limit' query
// parameter; the use case clamps it to the configured maximum.
func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50 // Default page size
	}

	list, err := s.codeUC.List(ctx, limit)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("list codes failed")
		writeError(w, http.StatusInternalServerError, "unavailable", "failed to list codes")
		return
	}

	data := make([]codeView, 0, len(list))
	for _, rc := range list {
		data = append(data, toCodeView(rc))
	}

	writeJSON(w, http.StatusOK, struct {
		Data []codeView `json:"data"`
	}{Data: data})
}

func (s *Server) handleGetCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	rc, err := s.codeUC.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "unknown code")
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Msg("get code failed")
		writeError(w, http.StatusInternalServerError, "unavailable", "failed to get code")
		return
	}
	writeJSON(w, http.StatusOK, toCodeView(rc))
}

type claimRequest struct {
	Code    string `json:"code"`
	Address string `json:"address"`
}

// handleClaim runs the claim flow and maps domain outcomes onto stable
// machine-readable error kinds. AlreadyUsed and Conflict share one external
// shape; infra and minter failures get generic messages, details go to logs.
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.IncClaim("invalid_input")
		writeError(w, http.StatusBadRequest, "invalid_input", "invalid request body")
		return
	}

	txRef, err := s.claimUC.Claim(ctx, req.Code, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.IncClaim("invalid_input")
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		case errors.Is(err, domain.ErrCodeNotFound):
			metrics.IncClaim("not_found")
			writeError(w, http.StatusNotFound, "not_found", "unknown code")
		case errors.Is(err, domain.ErrCodeAlreadyUsed):
			metrics.IncClaim("already_used")
			writeError(w, http.StatusConflict, "already_used", "this code has already been claimed")
		case errors.Is(err, domain.ErrClaimConflict):
			metrics.IncClaim("conflict")
			writeError(w, http.StatusConflict, "already_used", "this code has already been claimed")
		case errors.Is(err, domain.ErrMintFailed):
			metrics.IncClaim("mint_failed")
			logging.With(ctx, s.log).Error().Err(err).Msg("claim mint failure")
			writeError(w, http.StatusBadGateway, "mint_failed", "mint submission failed, please try again later")
		default:
			metrics.IncClaim("error")
			logging.With(ctx, s.log).Error().Err(err).Msg("claim infrastructure failure")
			writeError(w, http.StatusInternalServerError, "unavailable", "service temporarily unavailable")
		}
		return
	}

	metrics.IncClaim("success")
	writeJSON(w, http.StatusOK, struct {
		TransactionRef string `json:"transaction_ref"`
	}{TransactionRef: txRef})
}

// handleReady reports which required external configuration values are
// present, without revealing any of them.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ready := s.cfg.Ready()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, struct {
		Ready  bool            `json:"ready"`
		Checks map[string]bool `json:"checks"`
	}{
		Ready:  ready,
		Checks: s.cfg.Readiness(),
	})
}
