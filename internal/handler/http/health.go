package http

import (
	"net/http"

	"github.com/MKhiriev/go-boot-supervisor/internal/logger"
	"github.com/MKhiriev/go-boot-supervisor/internal/utils"
)

type healthResponse struct {
	Status  string `json:"status"`
	Workers int    `json:"workers"`
	Idle    int    `json:"idle"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:  "ok",
		Workers: h.pool.Size(),
		Idle:    h.pool.IdleCount(),
	}

	if _, err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Msg("writing health response")
	}
}
