package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"telegram-coin-discount/internal/domain"
	"telegram-coin-discount/internal/domain/model"
)

type loginRequest struct {
	APIKey string `json:"api_key"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("ops API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	if req.APIKey != s.apiKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	token, err := s.auth.Mint()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint admin token")
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

type convertRequest struct {
	Text string `json:"text"`
}

type convertResponse struct {
	ProductID     string               `json:"product_id"`
	SourceURL     string               `json:"source_url"`
	ResolvedURL   string               `json:"resolved_url"`
	AffiliateLink string               `json:"affiliate_link"`
	CoinLink      string               `json:"coin_link"`
	Detail        *model.ProductDetail `json:"detail,omitempty"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "Bad request: text is required", http.StatusBadRequest)
		return
	}

	conv, err := s.linkUC.Convert(r.Context(), req.Text)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoLinkFound), errors.Is(err, domain.ErrNoProductID):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		ProductID:     string(conv.ProductID),
		SourceURL:     conv.SourceURL,
		ResolvedURL:   conv.ResolvedURL,
		AffiliateLink: conv.AffiliateLink,
		CoinLink:      conv.CoinLink,
		Detail:        conv.Detail,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.linkUC.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
