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

type RoomHandler struct {
	service *application.RoomService
}

func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{
		service: service,
	}
}

func (handler *RoomHandler) Init(router *mux.Router) {
	// Fixed segments first so gorilla does not swallow them as {id}.
	router.HandleFunc("/api/rooms/my/listings", handler.GetMyListings).Methods("GET")
	router.HandleFunc("/api/rooms/admin/pending", handler.GetPendingRooms).Methods("GET")
	router.HandleFunc("/api/rooms/admin/approve/{id}", handler.Approve).Methods("PATCH")
	router.HandleFunc("/api/rooms/admin/reject/{id}", handler.Reject).Methods("PATCH")

	router.HandleFunc("/api/rooms", handler.GetPublicListings).Methods("GET")
	router.HandleFunc("/api/rooms", handler.Create).Methods("POST")
	router.HandleFunc("/api/rooms/{id}", handler.GetOne).Methods("GET")
	router.HandleFunc("/api/rooms/{id}", handler.Update).Methods("PUT")
	router.HandleFunc("/api/rooms/{id}", handler.Delete).Methods("DELETE")
}

func (handler *RoomHandler) GetPublicListings(writer http.ResponseWriter, req *http.Request) {
	rooms, err := handler.service.GetPublicListings()
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(rooms, writer)
}

func (handler *RoomHandler) GetOne(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	// Anonymous callers see approved listings only.
	callerId := primitive.NilObjectID
	callerRole := domain.RegularUser
	if userId, role, err := callerIdentity(req); err == nil {
		callerId = userId
		callerRole = role
	}

	room, err := handler.service.GetOne(id, callerId, callerRole)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(room, writer)
}

func (handler *RoomHandler) Create(writer http.ResponseWriter, req *http.Request) {
	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var room domain.Room
	err = room.FromJSON(req.Body)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	created, err := handler.service.Create(hostId, &room)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonStatus(created, http.StatusCreated, writer)
}

func (handler *RoomHandler) Update(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var update domain.Room
	err = json.NewDecoder(req.Body).Decode(&update)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	room, err := handler.service.Update(id, hostId, &update)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(room, writer)
}

func (handler *RoomHandler) Delete(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	err = handler.service.Delete(id, hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("Room deleted", writer)
}

func (handler *RoomHandler) GetMyListings(writer http.ResponseWriter, req *http.Request) {
	hostId, _, err := callerIdentity(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	rooms, err := handler.service.GetMyListings(hostId)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(rooms, writer)
}

func (handler *RoomHandler) GetPendingRooms(writer http.ResponseWriter, req *http.Request) {
	rooms, err := handler.service.GetPendingRooms()
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(rooms, writer)
}

func (handler *RoomHandler) Approve(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	room, err := handler.service.Approve(id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(room, writer)
}

func (handler *RoomHandler) Reject(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	var request domain.RejectRequest
	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	room, err := handler.service.Reject(id, request.Reason)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(room, writer)
}
