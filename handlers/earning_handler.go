package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"openspace_backend/domain"
	"openspace_backend/errors"
	application "openspace_backend/service"
)

type EarningHandler struct {
	service *application.EarningService
}

func NewEarningHandler(service *application.EarningService) *EarningHandler {
	return &EarningHandler{
		service: service,
	}
}

func (handler *EarningHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/earnings", handler.GetEarnings).Methods("GET")
	router.HandleFunc("/api/earnings/summary", handler.GetSummary).Methods("GET")
	router.HandleFunc("/api/earnings/request-payout", handler.RequestPayout).Methods("POST")
	router.HandleFunc("/api/earnings/admin/release", handler.ReleaseDueEarnings).Methods("POST")
}

func (handler *EarningHandler) GetEarnings(writer http.ResponseWriter, req *http.Request) {
	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	// Hosts start with pay-at-property earnings whose hold may have lapsed,
	// so release anything due before listing.
	_, err = handler.service.ReleaseDueEarnings(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	earnings, err := handler.service.GetEarnings(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(earnings, writer)
}

func (handler *EarningHandler) GetSummary(writer http.ResponseWriter, req *http.Request) {
	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	_, err = handler.service.ReleaseDueEarnings(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	summary, err := handler.service.GetSummary(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(summary, writer)
}

func (handler *EarningHandler) RequestPayout(writer http.ResponseWriter, req *http.Request) {
	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var request domain.PayoutRequest
	err = json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	_, err = handler.service.ReleaseDueEarnings(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	result, err := handler.service.RequestPayout(req.Context(), hostId, &request)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(result, writer)
}

func (handler *EarningHandler) ReleaseDueEarnings(writer http.ResponseWriter, req *http.Request) {
	hostId, err := primitive.ObjectIDFromHex(req.URL.Query().Get("hostId"))
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	released, err := handler.service.ReleaseDueEarnings(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(map[string]int64{"released": released}, writer)
}
