package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

func validRegistration() *domain.User {
	return &domain.User{
		FirstName: "Maria",
		LastName:  "Santos",
		Email:     "maria@example.com",
		Username:  "mariasantos",
		Password:  "Str0ng!Pass",
		UserType:  domain.RegularUser,
	}
}

func TestVerifyPassword(t *testing.T) {
	assert.True(t, verifyPassword("Str0ng!Pass"))
	assert.False(t, verifyPassword("Sh0rt!A"))
	assert.False(t, verifyPassword("alllowercase1!"))
	assert.False(t, verifyPassword("ALLUPPERCASE1!"))
	assert.False(t, verifyPassword("NoDigits!!"))
	assert.False(t, verifyPassword("NoSpecial123"))
}

func TestValidateRegistration(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(user *domain.User)
	}{
		{"empty email", func(u *domain.User) { u.Email = "" }},
		{"bad email", func(u *domain.User) { u.Email = "not-an-email" }},
		{"empty first name", func(u *domain.User) { u.FirstName = "" }},
		{"numeric first name", func(u *domain.User) { u.FirstName = "Maria3" }},
		{"short username", func(u *domain.User) { u.Username = "ab" }},
		{"weak password", func(u *domain.User) { u.Password = "password" }},
		{"admin registration forbidden", func(u *domain.User) { u.UserType = domain.AdminUser }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user := validRegistration()
			tc.mutate(user)
			assert.Error(t, validateRegistration(user))
		})
	}

	assert.Nil(t, validateRegistration(validRegistration()))
}

func TestRegister_EmailConflict(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	existing := validRegistration()
	existing.ID = primitive.NewObjectID()
	store.On("GetOneByEmail", "maria@example.com").Return(existing, nil)

	user, statusCode, err := svc.Register(context.Background(), validRegistration())

	assert.Nil(t, user)
	assert.Equal(t, 409, statusCode)
	require.Error(t, err)
	assert.Equal(t, errors.EmailAlreadyExist, err.Error())
	store.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestRegister_HashesPasswordAndStartsBasic(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	store.On("GetOneByEmail", "maria@example.com").Return(nil, nil)
	// Register blanks the password on the way out, so grab the stored hash
	// at insert time.
	var storedHash string
	store.On("Insert", mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		storedHash = args.Get(0).(*domain.User).Password
	}).Return(nil)
	cache.On("PostCacheData", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	user, statusCode, err := svc.Register(context.Background(), validRegistration())

	require.NoError(t, err)
	assert.Equal(t, 200, statusCode)
	assert.Equal(t, domain.LevelBasic, user.VerificationLevel)
	assert.False(t, user.IsEmailVerified)
	assert.False(t, user.IsBanned)
	// The response never carries the password back.
	assert.Empty(t, user.Password)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("Str0ng!Pass")))
}

func TestLogin_BannedUser(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	banned := validRegistration()
	banned.ID = primitive.NewObjectID()
	banned.Password = string(hash)
	banned.IsBanned = true
	store.On("GetOneByEmail", "maria@example.com").Return(banned, nil)

	// Valid credentials do not help a banned account.
	token, err := svc.Login(&domain.Credentials{Email: "maria@example.com", Password: "Str0ng!Pass"})

	assert.Empty(t, token)
	require.Error(t, err)
	assert.Equal(t, errors.UserBanned, err.Error())
}

func TestLogin_WrongPassword(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!Pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := validRegistration()
	user.ID = primitive.NewObjectID()
	user.Password = string(hash)
	store.On("GetOneByEmail", "maria@example.com").Return(user, nil)

	token, err := svc.Login(&domain.Credentials{Email: "maria@example.com", Password: "WrongPass1!"})

	assert.Empty(t, token)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidCredentials, err.Error())
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	store.On("GetOneByEmail", "nobody@example.com").Return(nil, nil)

	token, err := svc.Login(&domain.Credentials{Email: "nobody@example.com", Password: "Str0ng!Pass"})

	assert.Empty(t, token)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidCredentials, err.Error())
}

func TestSendOtp_AlreadyVerified(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	user := validRegistration()
	user.ID = primitive.NewObjectID()
	user.IsEmailVerified = true

	err := svc.SendOtp(context.Background(), user)

	require.Error(t, err)
	assert.Equal(t, errors.AlreadyVerifiedError, err.Error())
	cache.AssertNotCalled(t, "PostCacheData", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyOtp_WrongCode(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	user := validRegistration()
	user.ID = primitive.NewObjectID()
	cache.On("GetCachedValue", mock.Anything, "otp:"+user.ID.Hex()).Return("123456", nil)

	err := svc.verifyOtpCode(context.Background(), user, "654321")

	require.Error(t, err)
	assert.Equal(t, errors.InvalidOtpError, err.Error())
	// The wrong code must not verify the email.
	assert.False(t, user.IsEmailVerified)
	store.AssertNotCalled(t, "Update", mock.Anything)
	cache.AssertNotCalled(t, "DelCachedValue", mock.Anything, mock.Anything)
}

func TestVerifyOtp_ExpiredCode(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	user := validRegistration()
	user.ID = primitive.NewObjectID()
	cache.On("GetCachedValue", mock.Anything, "otp:"+user.ID.Hex()).
		Return("", fmt.Errorf("redis: nil"))

	err := svc.verifyOtpCode(context.Background(), user, "123456")

	require.Error(t, err)
	assert.Equal(t, errors.ExpiredTokenError, err.Error())
	store.AssertNotCalled(t, "Update", mock.Anything)
}

func TestVerifyOtp_CorrectCode(t *testing.T) {
	store := new(mockUserStore)
	cache := new(mockVerificationCache)
	svc := NewAuthService(store, cache)

	user := validRegistration()
	user.ID = primitive.NewObjectID()
	user.VerificationLevel = domain.LevelBasic

	cache.On("GetCachedValue", mock.Anything, "otp:"+user.ID.Hex()).Return("123456", nil)
	cache.On("DelCachedValue", mock.Anything, "otp:"+user.ID.Hex()).Return(nil)
	store.On("GetOneByID", user.ID).Return(user, nil)
	store.On("Update", mock.MatchedBy(func(updated *domain.User) bool {
		return updated.IsEmailVerified && updated.VerificationLevel == domain.LevelVerified
	})).Return(nil)

	err := svc.verifyOtpCode(context.Background(), user, "123456")

	require.NoError(t, err)
	store.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGenerateOtp(t *testing.T) {
	code, err := generateOtp()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
}
