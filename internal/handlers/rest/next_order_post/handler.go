package next_order_post

import (
	"encoding/json"
	"errors"
	"net/http"

	"sai/internal/service/cityrun"
	"sai/internal/service/reconcile"
	"sai/pkg/logger"
)

// Pull-поток: курьер сам просит ближайший застрявший заказ.
type nextOrderRequest struct {
	Phone string `json:"celular"`
}

type nextOrderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	log     handlerLogger
	service Service
}

func New(log handlerLogger, service Service) *Handler {
	handlerLog := log.With()

	return &Handler{
		log:     handlerLog,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var nextOrderDTO nextOrderRequest
	err := json.NewDecoder(r.Body).Decode(&nextOrderDTO)
	if err != nil || nextOrderDTO.Phone == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	err = h.service.OfferNextForCourier(r.Context(), nextOrderDTO.Phone)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrCourierNotFound):
			w.WriteHeader(http.StatusNotFound)
		case errors.Is(err, cityrun.ErrNoOffer), errors.Is(err, cityrun.ErrPolicyNotFound):
			h.writeResponse(w, http.StatusOK, nextOrderResponse{
				Status:  "no_offer",
				Message: "no stuck orders nearby",
			})
		default:
			h.log.With(
				logger.NewField("error", err),
			).Error("next order lookup failed")
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.writeResponse(w, http.StatusOK, nextOrderResponse{
		Status: "success",
	})
}

func (h *Handler) writeResponse(w http.ResponseWriter, code int, response nextOrderResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
