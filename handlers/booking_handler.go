package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"openspace_backend/domain"
	"openspace_backend/errors"
	application "openspace_backend/service"
)

type BookingHandler struct {
	service *application.BookingService
}

func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

func (handler *BookingHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/bookings", handler.Create).Methods("POST")
	router.HandleFunc("/api/bookings/my", handler.GetMyBookings).Methods("GET")
	router.HandleFunc("/api/bookings/cancel/{id}", handler.Cancel).Methods("POST")

	router.HandleFunc("/api/host/bookings", handler.GetHostBookings).Methods("GET")
	router.HandleFunc("/api/host/bookings/confirm/{id}", handler.Confirm).Methods("PATCH")
	router.HandleFunc("/api/host/bookings/reject/{id}", handler.Reject).Methods("PATCH")
	router.HandleFunc("/api/host/bookings/complete/{id}", handler.Complete).Methods("PATCH")
	router.HandleFunc("/api/host/bookings/mark-paid/{id}", handler.MarkPaymentReceived).Methods("PATCH")
}

func (handler *BookingHandler) Create(writer http.ResponseWriter, req *http.Request) {
	guestId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var booking domain.Booking
	err = booking.FromJSON(req.Body)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	created, err := handler.service.Create(req.Context(), guestId, &booking)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonStatus(created, http.StatusCreated, writer)
}

func (handler *BookingHandler) GetMyBookings(writer http.ResponseWriter, req *http.Request) {
	guestId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	bookings, err := handler.service.GetMyBookings(req.Context(), guestId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(bookings, writer)
}

func (handler *BookingHandler) Cancel(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	guestId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var request domain.RejectRequest
	_ = json.NewDecoder(req.Body).Decode(&request)

	booking, err := handler.service.Cancel(req.Context(), guestId, id, request.Reason)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(booking, writer)
}

func (handler *BookingHandler) GetHostBookings(writer http.ResponseWriter, req *http.Request) {
	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	bookings, err := handler.service.GetHostBookings(req.Context(), hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(bookings, writer)
}

func (handler *BookingHandler) Confirm(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	booking, err := handler.service.Confirm(req.Context(), hostId, id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(booking, writer)
}

func (handler *BookingHandler) Reject(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var request domain.RejectRequest
	err = json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	booking, err := handler.service.Reject(req.Context(), hostId, id, request.Reason)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(booking, writer)
}

func (handler *BookingHandler) Complete(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	booking, err := handler.service.Complete(req.Context(), hostId, id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(booking, writer)
}

func (handler *BookingHandler) MarkPaymentReceived(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	booking, err := handler.service.MarkPaymentReceived(req.Context(), hostId, id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(booking, writer)
}
