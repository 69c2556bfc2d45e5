package errors

const (
	InvalidCredentials        = "Invalid email or password"
	UserBanned                = "This account has been banned"
	EmailAlreadyExist         = "Email already exists in database"
	UsernameExist             = "Username already exists"
	UserNotFound              = "User not found"
	InvalidTokenError         = "Token is invalid"
	ExpiredTokenError         = "Verification code has expired"
	InvalidOtpError           = "Verification code is incorrect"
	AlreadyVerifiedError      = "Email is already verified"
	InvalidRequestFormatError = "Invalid request format"

	RoomNotFound         = "Room not found"
	RoomNotApproved      = "Room is not approved for booking"
	RoomAlreadyModerated = "Room was already approved or rejected"
	NotRoomOwner         = "You are not the owner of this room"
	RejectReasonRequired = "A reject reason is required"

	BookingNotFound          = "Booking not found"
	InvalidBookingTransition = "Invalid booking status transition"
	NotBookingHost           = "You are not the host of this booking"
	NotBookingGuest          = "You are not the guest of this booking"
	BookingInPast            = "Cannot create a booking in the past"
	CheckOutBeforeCheckIn    = "Check-out must be after check-in"
	TooManyGuests            = "Guest count exceeds room capacity"
	NotPayAtProperty         = "Booking is not a pay-at-property booking"
	PaymentAlreadyPaid       = "Payment was already received"
	CancelAfterCheckIn       = "Cannot cancel a booking after check-in"

	EarningNotFound          = "Earning not found"
	InvalidEarningTransition = "Invalid earning status transition"
	InsufficientBalance      = "Requested amount exceeds available balance"
	InvalidPayoutAmount      = "Payout amount must be greater than zero"
	InvalidPayoutMethod      = "Invalid payout method"
	InvalidCardDetails       = "Invalid card details"
	InvalidMobileNumber      = "Invalid mobile number"
	SettlementFailed         = "Payout settlement failed"
)
