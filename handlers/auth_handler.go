package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"openspace_backend/domain"
	"openspace_backend/errors"
	application "openspace_backend/service"
)

type AuthHandler struct {
	service *application.AuthService
}

func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/auth/register", handler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", handler.Login).Methods("POST")
	router.HandleFunc("/api/auth/logout", handler.Logout).Methods("POST")
	router.HandleFunc("/api/auth/me", handler.Me).Methods("GET")
	router.HandleFunc("/api/auth/profile", handler.UpdateProfile).Methods("PUT")
	router.HandleFunc("/api/auth/id-verification", handler.SubmitIdentification).Methods("POST")

	router.HandleFunc("/api/email-verification/send-otp", handler.SendOtp).Methods("POST")
	router.HandleFunc("/api/email-verification/resend-otp", handler.ResendOtp).Methods("POST")
	router.HandleFunc("/api/email-verification/verify-otp", handler.VerifyOtp).Methods("POST")
}

func (handler *AuthHandler) Register(writer http.ResponseWriter, req *http.Request) {
	var user domain.User
	err := user.FromJSON(req.Body)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	err = user.ValidateUser()
	if err != nil {
		jsonError(err.Error(), http.StatusBadRequest, writer)
		return
	}

	created, statusCode, err := handler.service.Register(req.Context(), &user)
	if err != nil {
		jsonError(err.Error(), statusCode, writer)
		return
	}

	jsonResponse(created, writer)
}

func (handler *AuthHandler) Login(writer http.ResponseWriter, req *http.Request) {
	var credentials domain.Credentials
	err := json.NewDecoder(req.Body).Decode(&credentials)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	token, err := handler.service.Login(&credentials)
	if err != nil {
		if err.Error() == errors.UserBanned {
			jsonError(err.Error(), http.StatusForbidden, writer)
			return
		}
		jsonError(errors.InvalidCredentials, http.StatusUnauthorized, writer)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})

	jsonResponse(map[string]string{"token": token}, writer)
}

// Tokens live client-side; logout clears the cookie and that is all.
func (handler *AuthHandler) Logout(writer http.ResponseWriter, req *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	jsonMessage("Logged out", writer)
}

func (handler *AuthHandler) Me(writer http.ResponseWriter, req *http.Request) {
	token, err := bearerToken(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	user, err := handler.service.GetMe(token)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(user, writer)
}

func (handler *AuthHandler) UpdateProfile(writer http.ResponseWriter, req *http.Request) {
	token, err := bearerToken(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var update domain.User
	err = json.NewDecoder(req.Body).Decode(&update)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	user, err := handler.service.UpdateProfile(token, &update)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonResponse(user, writer)
}

func (handler *AuthHandler) SubmitIdentification(writer http.ResponseWriter, req *http.Request) {
	token, err := bearerToken(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var document domain.IdentificationDocument
	err = json.NewDecoder(req.Body).Decode(&document)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	if document.IdType == "" || document.IdNumber == "" {
		jsonError("idType and idNumber are required", http.StatusBadRequest, writer)
		return
	}

	err = handler.service.SubmitIdentification(token, &document)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("Identification document submitted for review", writer)
}

func (handler *AuthHandler) SendOtp(writer http.ResponseWriter, req *http.Request) {
	token, err := bearerToken(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	user, err := handler.service.GetMe(token)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	err = handler.service.SendOtp(req.Context(), user)
	if err != nil {
		log.Println(err)
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("Verification code sent", writer)
}

func (handler *AuthHandler) ResendOtp(writer http.ResponseWriter, req *http.Request) {
	token, err := bearerToken(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	err = handler.service.ResendOtp(req.Context(), token)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("Verification code resent", writer)
}

func (handler *AuthHandler) VerifyOtp(writer http.ResponseWriter, req *http.Request) {
	token, err := bearerToken(req)
	if err != nil {
		jsonError(err.Error(), http.StatusUnauthorized, writer)
		return
	}

	var request domain.OtpVerification
	err = json.NewDecoder(req.Body).Decode(&request)
	if err != nil {
		jsonError(errors.InvalidRequestFormatError, http.StatusBadRequest, writer)
		return
	}

	if len(request.Code) == 0 {
		jsonError(errors.InvalidOtpError, http.StatusBadRequest, writer)
		return
	}

	err = handler.service.VerifyOtp(req.Context(), token, request.Code)
	if err != nil {
		jsonError(err.Error(), errorStatus(err), writer)
		return
	}

	jsonMessage("Email verified", writer)
}
