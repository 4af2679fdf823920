package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"nft-drop-redemption/internal/domain"
	"nft-drop-redemption/internal/infra/logging"
	"nft-drop-redemption/internal/usecase"
)

const qrSizePx = 256

// handleCodeQR renders the scannable artifact for a code: a PNG QR encoding
// the claim page URL with the code id as a query parameter. The artifact is
// a bearer credential, so clients must not cache it.
func (s *Server) handleCodeQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if _, err := s.codeUC.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Msg("qr lookup failed")
		http.Error(w, "service temporarily unavailable", http.StatusInternalServerError)
		return
	}

	claimURL, err := usecase.ClaimURL(s.cfg.Server.ClaimBaseURL, id)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("claim url build failed")
		http.Error(w, "service temporarily unavailable", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(claimURL, qrcode.Medium, qrSizePx)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("qr encode failed")
		http.Error(w, "service temporarily unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
