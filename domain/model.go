package domain

import (
	"encoding/json"
	"io"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	RegularUser UserType = "user"
	HostUser    UserType = "host"
	AdminUser   UserType = "admin"
)

type VerificationLevel string

const (
	LevelBasic    VerificationLevel = "basic"
	LevelVerified VerificationLevel = "verified"
	LevelAdmin    VerificationLevel = "admin"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

type IdentificationDocument struct {
	IdType             string         `bson:"idType,omitempty" json:"idType,omitempty"`
	IdNumber           string         `bson:"idNumber,omitempty" json:"idNumber,omitempty"`
	Image              string         `bson:"image,omitempty" json:"image,omitempty"`
	VerificationStatus DocumentStatus `bson:"verificationStatus,omitempty" json:"verificationStatus,omitempty"`
	UploadedAt         time.Time      `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}

type HostInfo struct {
	Bio          string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Languages    []string `bson:"languages,omitempty" json:"languages,omitempty"`
	ResponseRate int      `bson:"responseRate,omitempty" json:"responseRate,omitempty"`
	ResponseTime string   `bson:"responseTime,omitempty" json:"responseTime,omitempty"`
}

type User struct {
	ID                     primitive.ObjectID      `bson:"_id" json:"id"`
	FirstName              string                  `bson:"firstName,omitempty" json:"firstName,omitempty" validate:"required,onlyChar"`
	LastName               string                  `bson:"lastName,omitempty" json:"lastName,omitempty" validate:"required,onlyChar"`
	Email                  string                  `bson:"email" json:"email" validate:"required,email"`
	Username               string                  `bson:"username" json:"username" validate:"required,onlyCharAndNum"`
	Password               string                  `bson:"password" json:"password,omitempty"`
	PhoneNumber            string                  `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	UserType               UserType                `bson:"userType" json:"userType"`
	VerificationLevel      VerificationLevel       `bson:"verificationLevel" json:"verificationLevel"`
	IsEmailVerified        bool                    `bson:"isEmailVerified" json:"isEmailVerified"`
	IsPhoneVerified        bool                    `bson:"isPhoneVerified" json:"isPhoneVerified"`
	IsBanned               bool                    `bson:"isBanned" json:"isBanned"`
	IdentificationDocument *IdentificationDocument `bson:"identificationDocument,omitempty" json:"identificationDocument,omitempty"`
	HostInfo               *HostInfo               `bson:"hostInfo,omitempty" json:"hostInfo,omitempty"`
	CreatedAt              time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time               `bson:"updatedAt" json:"updatedAt"`
}

type RoomStatus string

const (
	RoomPending  RoomStatus = "pending"
	RoomApproved RoomStatus = "approved"
	RoomRejected RoomStatus = "rejected"
)

type Location struct {
	Country string `bson:"country,omitempty" json:"country"`
	City    string `bson:"city,omitempty" json:"city"`
	Street  string `bson:"street,omitempty" json:"street"`
	Number  int    `bson:"number,omitempty" json:"number"`
}

type Room struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	HostId        primitive.ObjectID `bson:"hostId" json:"hostId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description"`
	Location      Location           `bson:"location,omitempty" json:"location"`
	PricePerNight float64            `bson:"pricePerNight" json:"pricePerNight"`
	Capacity      int                `bson:"capacity" json:"capacity"`
	Amenities     []string           `bson:"amenities,omitempty" json:"amenities"`
	Images        []string           `bson:"images,omitempty" json:"images"`
	Status        RoomStatus         `bson:"status" json:"status"`
	RejectReason  string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type PaymentMethod string

const (
	PayAtProperty PaymentMethod = "property"
	PayByCard     PaymentMethod = "card"
	PayByGcash    PaymentMethod = "gcash"
	PayByMaya     PaymentMethod = "maya"
)

func (m PaymentMethod) IsOnline() bool {
	return m == PayByCard || m == PayByGcash || m == PayByMaya
}

func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PayAtProperty || m.IsOnline()
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingRejected  BookingStatus = "rejected"
)

// Forward-only transitions: pending -> confirmed -> completed, with
// pending/confirmed able to divert to cancelled and pending to rejected.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled, BookingRejected},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCompleted: {},
	BookingCancelled: {},
	BookingRejected:  {},
}

func CanTransitionBooking(from, to BookingStatus) bool {
	for _, allowed := range bookingTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	RoomId             primitive.ObjectID `bson:"roomId" json:"roomId"`
	GuestId            primitive.ObjectID `bson:"guestId" json:"guestId"`
	HostId             primitive.ObjectID `bson:"hostId" json:"hostId"`
	CheckIn            time.Time          `bson:"checkIn" json:"checkIn"`
	CheckOut           time.Time          `bson:"checkOut" json:"checkOut"`
	CheckInTime        string             `bson:"checkInTime,omitempty" json:"checkInTime,omitempty"`
	CheckOutTime       string             `bson:"checkOutTime,omitempty" json:"checkOutTime,omitempty"`
	Guests             int                `bson:"guests" json:"guests"`
	TotalPrice         float64            `bson:"totalPrice" json:"totalPrice"`
	PaymentMethod      PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus      PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	BookingStatus      BookingStatus      `bson:"bookingStatus" json:"bookingStatus"`
	RejectReason       string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`
	CancellationReason string             `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type EarningStatus string

const (
	EarningPending   EarningStatus = "pending"
	EarningAvailable EarningStatus = "available"
	EarningPaidOut   EarningStatus = "paid_out"
)

// An earning only reaches available from pending and paid_out from available.
func CanTransitionEarning(from, to EarningStatus) bool {
	switch from {
	case EarningPending:
		return to == EarningAvailable
	case EarningAvailable:
		return to == EarningPaidOut
	}
	return false
}

type Earning struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	BookingId     primitive.ObjectID `bson:"bookingId" json:"bookingId"`
	HostId        primitive.ObjectID `bson:"hostId" json:"hostId"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentMethod PaymentMethod      `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Status        EarningStatus      `bson:"status" json:"status"`
	AvailableDate time.Time          `bson:"availableDate,omitempty" json:"availableDate,omitempty"`
	PayoutRef     string             `bson:"payoutRef,omitempty" json:"payoutRef,omitempty"`
	PaidOutDate   time.Time          `bson:"paidOutDate,omitempty" json:"paidOutDate,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

type EarningsSummary struct {
	Total          float64    `json:"total"`
	Available      float64    `json:"available"`
	Pending        float64    `json:"pending"`
	PaidOut        float64    `json:"paidOut"`
	LastPayout     float64    `json:"lastPayout"`
	LastPayoutDate *time.Time `json:"lastPayoutDate,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Claims struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Role      UserType  `json:"userType"`
	ExpiresAt time.Time `json:"expires_at"`
}

type OtpVerification struct {
	Code string `json:"code"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ModerationDecision struct {
	Action string `json:"action"` // approve or reject
	Reason string `json:"reason,omitempty"`
}

type PayoutRequest struct {
	Amount       float64       `json:"amount"`
	Method       PaymentMethod `json:"method"`
	CardNumber   string        `json:"cardNumber,omitempty"`
	CardExpiry   string        `json:"cardExpiry,omitempty"`
	CardCvv      string        `json:"cardCvv,omitempty"`
	MobileNumber string        `json:"mobileNumber,omitempty"`
	AccountName  string        `json:"accountName,omitempty"`
}

type PayoutResult struct {
	PayoutRef string        `json:"payoutRef"`
	Amount    float64       `json:"amount"`
	Method    PaymentMethod `json:"method"`
}

func (user *User) ValidateUser() error {
	validate := validator.New()

	err := validate.RegisterValidation("onlyChar", onlyCharactersField)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("onlyCharAndNum", onlyCharactersAndNumbersField)
	if err != nil {
		return err
	}

	return validate.Struct(user)
}

// Allows only letters [a-z]
func onlyCharactersField(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[a-zA-Z]+$`)
	return re.MatchString(fl.Field().String())
}

// Allows only letters [a-z] and numbers [0-9]
func onlyCharactersAndNumbersField(fl validator.FieldLevel) bool {
	re := regexp.MustCompile(`^[-_a-zA-Z0-9]+$`)
	return re.MatchString(fl.Field().String())
}

func (user *User) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(user)
}

func (room *Room) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(room)
}

func (booking *Booking) FromJSON(reader io.Reader) error {
	d := json.NewDecoder(reader)
	return d.Decode(booking)
}
