package application

import (
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

// AdminService covers user moderation: ban/unban, destructive delete and
// ID-document review. Room approval lives on the RoomService.
type AdminService struct {
	store domain.UserStore
}

func NewAdminService(store domain.UserStore) *AdminService {
	return &AdminService{
		store: store,
	}
}

func (service *AdminService) GetAllUsers() ([]*domain.User, error) {
	users, err := service.store.GetAll()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.Password = ""
	}
	return users, nil
}

func (service *AdminService) BanUser(id primitive.ObjectID) error {
	user, err := service.store.GetOneByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf(errors.UserNotFound)
	}

	return service.store.SetBanned(id, true)
}

func (service *AdminService) UnbanUser(id primitive.ObjectID) error {
	user, err := service.store.GetOneByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf(errors.UserNotFound)
	}

	return service.store.SetBanned(id, false)
}

// DeleteUser is the destructive admin action; banning is the soft one.
func (service *AdminService) DeleteUser(id primitive.ObjectID) error {
	user, err := service.store.GetOneByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf(errors.UserNotFound)
	}

	log.Printf("Deleting user %s", id.Hex())
	return service.store.Delete(id)
}

func (service *AdminService) GetPendingVerifications() ([]*domain.User, error) {
	users, err := service.store.GetPendingVerifications()
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.Password = ""
	}
	return users, nil
}

func (service *AdminService) DecideIdVerification(id primitive.ObjectID, decision *domain.ModerationDecision) error {
	user, err := service.store.GetOneByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf(errors.UserNotFound)
	}
	if user.IdentificationDocument == nil || user.IdentificationDocument.VerificationStatus != domain.DocumentPending {
		return fmt.Errorf(errors.InvalidRequestFormatError)
	}

	switch decision.Action {
	case "approve":
		user.IdentificationDocument.VerificationStatus = domain.DocumentApproved
		if user.VerificationLevel == domain.LevelBasic {
			user.VerificationLevel = domain.LevelVerified
		}
	case "reject":
		user.IdentificationDocument.VerificationStatus = domain.DocumentRejected
	default:
		return fmt.Errorf(errors.InvalidRequestFormatError)
	}

	return service.store.Update(user)
}
