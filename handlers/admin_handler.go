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

type AdminHandler struct {
	service *application.AdminService
}

func NewAdminHandler(service *application.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (handler *AdminHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/auth/admin/users", handler.GetAllUsers).Methods("GET")
	router.HandleFunc("/api/auth/admin/ban/{id}", handler.BanUser).Methods("PATCH")
	router.HandleFunc("/api/auth/admin/unban/{id}", handler.UnbanUser).Methods("PATCH")
	router.HandleFunc("/api/auth/admin/users/{id}", handler.DeleteUser).Methods("DELETE")
	router.HandleFunc("/api/auth/admin/id-verifications", handler.GetPendingVerifications).Methods("GET")
	router.HandleFunc("/api/auth/admin/id-verification/{id}", handler.DecideIdVerification).Methods("PATCH")
}

func (handler *AdminHandler) GetAllUsers(writer http.ResponseWriter, req *http.Request) {
	users, err := handler.service.GetAllUsers()
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(users, writer)
}

func (handler *AdminHandler) BanUser(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	err := handler.service.BanUser(id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("User banned", writer)
}

func (handler *AdminHandler) UnbanUser(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	err := handler.service.UnbanUser(id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("User unbanned", writer)
}

func (handler *AdminHandler) DeleteUser(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	err := handler.service.DeleteUser(id)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("User deleted", writer)
}

func (handler *AdminHandler) GetPendingVerifications(writer http.ResponseWriter, req *http.Request) {
	users, err := handler.service.GetPendingVerifications()
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(users, writer)
}

func (handler *AdminHandler) DecideIdVerification(writer http.ResponseWriter, req *http.Request) {
	id, ok := pathObjectID(writer, req)
	if !ok {
		return
	}

	var decision domain.ModerationDecision
	err := json.NewDecoder(req.Body).Decode(&decision)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	err = handler.service.DecideIdVerification(id, &decision)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("Verification decision recorded", writer)
}

func pathObjectID(writer http.ResponseWriter, req *http.Request) (primitive.ObjectID, bool) {
	vars := mux.Vars(req)
	id, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return primitive.NilObjectID, false
	}
	return id, true
}
