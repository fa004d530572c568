package webhook_post

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"sai/internal/service/reconcile"
	"sai/pkg/logger"
)

// Значение статуса, которым канал помечает положительный ответ курьера.
const acceptedStatus = "Resposta_sim"

// webhookRequest повторяет форму вебхука канала: классификация ответа
// в bot_context и пара, сохраненная в кастомных полях при регистрации.
// Числа приходят строками.
type webhookRequest struct {
	BotContext struct {
		Status string `json:"Status"`
	} `json:"bot_context"`
	CustomFields struct {
		OrderID    string `json:"order_id"`
		ProviderID string `json:"provider_id"`
	} `json:"campos_personalizados"`
	Phone string `json:"celular"`
}

type webhookResponse struct {
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

// Любой бизнес-исход (включая гонку и сбой назначения) — это 200:
// канал не должен бесконечно ретраить вебхук из-за наших решений.
// 400 и 404 остаются только за битым payload и исчезнувшим заказом.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var webhookDTO webhookRequest
	err := json.NewDecoder(r.Body).Decode(&webhookDTO)
	if err != nil {
		h.writeResponse(w, http.StatusBadRequest, webhookResponse{
			Status:  "error",
			Message: "invalid JSON payload",
		})
		return
	}

	orderID, _ := strconv.ParseInt(webhookDTO.CustomFields.OrderID, 10, 64)
	providerID, _ := strconv.ParseInt(webhookDTO.CustomFields.ProviderID, 10, 64)

	reply := reconcile.Reply{
		Phone:      webhookDTO.Phone,
		Accepted:   webhookDTO.BotContext.Status == acceptedStatus,
		OrderID:    orderID,
		ProviderID: providerID,
	}

	err = h.service.HandleReply(r.Context(), reply)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrMissingFields):
			h.writeResponse(w, http.StatusBadRequest, webhookResponse{
				Status:  "error",
				Message: "Missing required custom fields",
			})
		case errors.Is(err, reconcile.ErrOrderNotFound):
			h.writeResponse(w, http.StatusNotFound, webhookResponse{
				Status:  "error",
				Message: "Order not found",
			})
		default:
			h.log.With(
				logger.NewField("error", err),
			).Error("webhook reply processing failed")
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}

	h.writeResponse(w, http.StatusOK, webhookResponse{
		Status: "success",
	})
}

func (h *Handler) writeResponse(w http.ResponseWriter, code int, response webhookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.With(
			logger.NewField("error", err),
		).Error("encode JSON response")
	}
}
