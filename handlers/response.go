package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"openspace_backend/authorization"
	"openspace_backend/domain"
	"openspace_backend/errors"
	application "openspace_backend/service"
)

// Every response uses the same envelope so clients can branch on success
// without inspecting status codes.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func jsonResponse(data interface{}, writer http.ResponseWriter) {
	jsonStatus(data, http.StatusOK, writer)
}

func jsonStatus(data interface{}, statusCode int, writer http.ResponseWriter) {
	writer.WriteHeader(statusCode)
	err := json.NewEncoder(writer).Encode(Envelope{Success: true, Data: data})
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

func jsonMessage(message string, writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(writer).Encode(Envelope{Success: true, Message: message})
}

func jsonError(message string, statusCode int, writer http.ResponseWriter) {
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(Envelope{Success: false, Message: message})
}

func bearerToken(req *http.Request) (string, error) {
	bearer := req.Header.Get("Authorization")
	if bearer == "" {
		if cookie, err := req.Cookie("token"); err == nil {
			return cookie.Value, nil
		}
		return "", fmt.Errorf(errors.InvalidTokenError)
	}

	bearerParts := strings.Split(bearer, "Bearer ")
	if len(bearerParts) != 2 {
		return "", fmt.Errorf(errors.InvalidTokenError)
	}

	return bearerParts[1], nil
}

func callerIdentity(req *http.Request) (primitive.ObjectID, domain.UserType, error) {
	token, err := bearerToken(req)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	parsedToken := authorization.GetToken(token)
	claims := authorization.GetMapClaims(parsedToken.Bytes())

	callerId, err := primitive.ObjectIDFromHex(claims["userId"])
	if err != nil {
		return primitive.NilObjectID, "", fmt.Errorf(errors.InvalidTokenError)
	}

	return callerId, domain.UserType(claims["userType"]), nil
}

// errorStatus maps service error messages onto HTTP statuses. Unknown
// messages fall through to 500.
func errorStatus(err error) int {
	var validationErr *application.ValidationError
	if stderrors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	switch err.Error() {
	case errors.InvalidCredentials, errors.InvalidTokenError:
		return http.StatusUnauthorized
	case errors.UserBanned, errors.NotRoomOwner, errors.NotBookingHost, errors.NotBookingGuest:
		return http.StatusForbidden
	case errors.UserNotFound, errors.RoomNotFound, errors.BookingNotFound, errors.EarningNotFound:
		return http.StatusNotFound
	case errors.EmailAlreadyExist, errors.UsernameExist, errors.RoomAlreadyModerated, errors.PaymentAlreadyPaid:
		return http.StatusConflict
	case errors.ExpiredTokenError, errors.InvalidOtpError:
		return http.StatusNotAcceptable
	case errors.InvalidBookingTransition, errors.InvalidEarningTransition,
		errors.RejectReasonRequired, errors.BookingInPast, errors.CheckOutBeforeCheckIn,
		errors.TooManyGuests, errors.NotPayAtProperty, errors.CancelAfterCheckIn,
		errors.RoomNotApproved, errors.InsufficientBalance, errors.InvalidPayoutAmount,
		errors.InvalidPayoutMethod, errors.InvalidCardDetails, errors.InvalidMobileNumber,
		errors.AlreadyVerifiedError, errors.InvalidRequestFormatError:
		return http.StatusBadRequest
	case errors.SettlementFailed:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
