package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"regexp"
	"time"
	"unicode"

	"github.com/cristalhq/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"

	"openspace_backend/authorization"
	"openspace_backend/domain"
	"openspace_backend/errors"
)

var (
	smtpServer     = os.Getenv("SMTP_SERVER")
	smtpServerPort = 587
	smtpEmail      = os.Getenv("SMTP_AUTH_MAIL")
	smtpPassword   = os.Getenv("SMTP_AUTH_PASSWORD")
)

type AuthService struct {
	store domain.UserStore
	cache domain.VerificationCache
}

func NewAuthService(store domain.UserStore, cache domain.VerificationCache) *AuthService {
	return &AuthService{
		store: store,
		cache: cache,
	}
}

type ValidationError struct {
	Message string `json:"message"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

func verifyPassword(s string) (valid bool) {
	hasUpperCase := false
	hasLowerCase := false
	hasDigit := false
	hasSpecial := false

	for _, c := range s {
		switch {
		case unicode.IsNumber(c):
			hasDigit = true
		case unicode.IsUpper(c):
			hasUpperCase = true
		case unicode.IsLower(c):
			hasLowerCase = true
		case unicode.Is(unicode.S, c) || unicode.IsPunct(c):
			hasSpecial = true
		}
	}

	valid = len(s) >= 8 && hasUpperCase && hasLowerCase && hasDigit && hasSpecial
	return
}

func validateRegistration(user *domain.User) *ValidationError {
	emailRegex := regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	nameRegex := regexp.MustCompile(`^[a-zA-Z]{2,30}$`)
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_-]{4,30}$`)

	if user.Email == "" {
		return &ValidationError{Message: "Email cannot be empty"}
	}
	if !emailRegex.MatchString(user.Email) {
		return &ValidationError{Message: "Invalid email format"}
	}

	if user.FirstName == "" {
		return &ValidationError{Message: "FirstName cannot be empty"}
	}
	if !nameRegex.MatchString(user.FirstName) {
		return &ValidationError{Message: "Invalid firstname format. It must contain only letters and be 2-30 characters long"}
	}
	if user.LastName == "" {
		return &ValidationError{Message: "LastName cannot be empty"}
	}
	if !nameRegex.MatchString(user.LastName) {
		return &ValidationError{Message: "Invalid lastname format. It must contain only letters and be 2-30 characters long"}
	}

	if user.Username == "" {
		return &ValidationError{Message: "Username cannot be empty"}
	}
	if !usernameRegex.MatchString(user.Username) {
		return &ValidationError{Message: "Invalid username format. It must be 4-30 characters long and contain only letters, numbers, underscores, and hyphens"}
	}

	if user.Password == "" {
		return &ValidationError{Message: "Password cannot be empty"}
	}
	if !verifyPassword(user.Password) {
		return &ValidationError{Message: "Invalid password format. It should be at least 8 characters, with at least one uppercase letter, one lowercase letter, one digit, and one special character"}
	}

	if user.UserType != domain.RegularUser && user.UserType != domain.HostUser {
		return &ValidationError{Message: "UserType should be either 'user' or 'host'"}
	}

	return nil
}

func (service *AuthService) Register(ctx context.Context, user *domain.User) (*domain.User, int, error) {
	if err := validateRegistration(user); err != nil {
		return nil, http.StatusBadRequest, err
	}

	existingUser, err := service.store.GetOneByEmail(user.Email)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if existingUser != nil {
		return nil, http.StatusConflict, fmt.Errorf(errors.EmailAlreadyExist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	user.Password = string(hash)
	user.VerificationLevel = domain.LevelBasic
	user.IsEmailVerified = false
	user.IsBanned = false

	err = service.store.Insert(user)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	err = service.SendOtp(ctx, user)
	if err != nil {
		log.Printf("Failed to send verification code on register: %s", err)
	}

	user.Password = ""
	return user, http.StatusOK, nil
}

func (service *AuthService) Login(credentials *domain.Credentials) (string, error) {
	user, err := service.store.GetOneByEmail(credentials.Email)
	if err != nil {
		return "", fmt.Errorf("Error retrieving user: %v", err)
	}

	if user == nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	// A banned user cannot authenticate, valid credentials or not.
	if user.IsBanned {
		return "", fmt.Errorf(errors.UserBanned)
	}

	passError := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password))
	if passError != nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	tokenString, err := GenerateJWT(user)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (service *AuthService) GetMe(token string) (*domain.User, error) {
	parsedToken := authorization.GetToken(token)
	claims := authorization.GetMapClaims(parsedToken.Bytes())

	userID, err := primitive.ObjectIDFromHex(claims["userId"])
	if err != nil {
		return nil, fmt.Errorf(errors.InvalidTokenError)
	}

	user, err := service.store.GetOneByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf(errors.UserNotFound)
	}
	if user.IsBanned {
		return nil, fmt.Errorf(errors.UserBanned)
	}

	user.Password = ""
	return user, nil
}

func (service *AuthService) UpdateProfile(token string, update *domain.User) (*domain.User, error) {
	user, err := service.GetMe(token)
	if err != nil {
		return nil, err
	}

	stored, err := service.store.GetOneByID(user.ID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		stored.FirstName = update.FirstName
	}
	if update.LastName != "" {
		stored.LastName = update.LastName
	}
	if update.PhoneNumber != "" {
		stored.PhoneNumber = update.PhoneNumber
		stored.IsPhoneVerified = false
	}
	if update.HostInfo != nil {
		stored.HostInfo = update.HostInfo
	}

	err = service.store.Update(stored)
	if err != nil {
		return nil, err
	}

	stored.Password = ""
	return stored, nil
}

// SubmitIdentification attaches an ID document to the caller. Resubmission
// puts the document back into pending review.
func (service *AuthService) SubmitIdentification(token string, document *domain.IdentificationDocument) error {
	user, err := service.GetMe(token)
	if err != nil {
		return err
	}

	stored, err := service.store.GetOneByID(user.ID)
	if err != nil {
		return err
	}

	document.VerificationStatus = domain.DocumentPending
	document.UploadedAt = time.Now()
	stored.IdentificationDocument = document

	return service.store.Update(stored)
}

func (service *AuthService) SendOtp(ctx context.Context, user *domain.User) error {
	if user.IsEmailVerified {
		return fmt.Errorf(errors.AlreadyVerifiedError)
	}

	code, err := generateOtp()
	if err != nil {
		return err
	}

	err = service.cache.PostCacheData(ctx, otpKey(user.ID), code)
	if err != nil {
		log.Printf("Failed to post verification code to redis: %s", err)
		return err
	}

	err = sendOtpMail(code, user.Email)
	if err != nil {
		log.Printf("Failed to send verification mail: %s", err)
		return err
	}

	return nil
}

// Resend reissues a fresh code; the cache overwrite invalidates the old one.
func (service *AuthService) ResendOtp(ctx context.Context, token string) error {
	user, err := service.GetMe(token)
	if err != nil {
		return err
	}

	return service.SendOtp(ctx, user)
}

func (service *AuthService) VerifyOtp(ctx context.Context, token string, code string) error {
	user, err := service.GetMe(token)
	if err != nil {
		return err
	}

	return service.verifyOtpCode(ctx, user, code)
}

func (service *AuthService) verifyOtpCode(ctx context.Context, user *domain.User, code string) error {
	cached, err := service.cache.GetCachedValue(ctx, otpKey(user.ID))
	if err != nil {
		log.Printf("Error fetching verification code from cache: %s", err)
		return fmt.Errorf(errors.ExpiredTokenError)
	}

	if code != cached {
		return fmt.Errorf(errors.InvalidOtpError)
	}

	err = service.cache.DelCachedValue(ctx, otpKey(user.ID))
	if err != nil {
		log.Printf("error in deleting cached value: %s", err)
	}

	stored, err := service.store.GetOneByID(user.ID)
	if err != nil {
		return err
	}

	stored.IsEmailVerified = true
	if stored.VerificationLevel == domain.LevelBasic {
		stored.VerificationLevel = domain.LevelVerified
	}

	return service.store.Update(stored)
}

func otpKey(userID primitive.ObjectID) string {
	return "otp:" + userID.Hex()
}

func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func sendOtpMail(code string, email string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", smtpEmail)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Verify your OpenSpace account")

	bodyString := fmt.Sprintf("Your OpenSpace verification code is:\n%s\n\nThe code expires in 10 minutes.", code)
	message.SetBody("text", bodyString)

	client := gomail.NewDialer(smtpServer, smtpServerPort, smtpEmail, smtpPassword)

	if err := client.DialAndSend(message); err != nil {
		log.Printf("failed to send verification mail because of: %s", err)
		return err
	}

	return nil
}

func GenerateJWT(user *domain.User) (string, error) {
	key := []byte(os.Getenv("SECRET_KEY"))
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		log.Println(err)
	}

	builder := jwt.NewBuilder(signer)

	claims := &domain.Claims{
		UserID:    user.ID.Hex(),
		Username:  user.Username,
		Role:      user.UserType,
		ExpiresAt: time.Now().Add(time.Minute * 60),
	}

	token, err := builder.Build(claims)
	if err != nil {
		log.Println(err)
		return "", fmt.Errorf(errors.InvalidTokenError)
	}

	return token.String(), nil
}
