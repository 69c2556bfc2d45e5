package application

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

type RoomService struct {
	store domain.RoomStore
}

func NewRoomService(store domain.RoomStore) *RoomService {
	return &RoomService{
		store: store,
	}
}

func validateRoom(room *domain.Room) *ValidationError {
	if room.Name == "" {
		return &ValidationError{Message: "Room name cannot be empty"}
	}
	if room.PricePerNight <= 0 {
		return &ValidationError{Message: "Price per night must be greater than zero"}
	}
	if room.Capacity <= 0 {
		return &ValidationError{Message: "Capacity must be greater than zero"}
	}
	if room.Location.Country == "" || room.Location.City == "" {
		return &ValidationError{Message: "Location country and city are required"}
	}
	return nil
}

func (service *RoomService) Create(hostId primitive.ObjectID, room *domain.Room) (*domain.Room, error) {
	if err := validateRoom(room); err != nil {
		return nil, err
	}

	room.HostId = hostId
	room.RejectReason = ""

	err := service.store.Insert(room)
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (service *RoomService) GetPublicListings() ([]*domain.Room, error) {
	return service.store.GetApproved()
}

// Unapproved rooms stay hidden from everyone except their owner and admins.
func (service *RoomService) GetOne(id primitive.ObjectID, callerId primitive.ObjectID, callerRole domain.UserType) (*domain.Room, error) {
	room, err := service.store.GetOneByID(id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf(errors.RoomNotFound)
	}

	if room.Status != domain.RoomApproved && room.HostId != callerId && callerRole != domain.AdminUser {
		return nil, fmt.Errorf(errors.RoomNotFound)
	}

	return room, nil
}

func (service *RoomService) GetMyListings(hostId primitive.ObjectID) ([]*domain.Room, error) {
	return service.store.GetByHost(hostId)
}

func (service *RoomService) Update(id primitive.ObjectID, hostId primitive.ObjectID, update *domain.Room) (*domain.Room, error) {
	room, err := service.store.GetOneByID(id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf(errors.RoomNotFound)
	}
	if room.HostId != hostId {
		return nil, fmt.Errorf(errors.NotRoomOwner)
	}

	if update.Name != "" {
		room.Name = update.Name
	}
	if update.Description != "" {
		room.Description = update.Description
	}
	if update.PricePerNight > 0 {
		room.PricePerNight = update.PricePerNight
	}
	if update.Capacity > 0 {
		room.Capacity = update.Capacity
	}
	if update.Amenities != nil {
		room.Amenities = update.Amenities
	}
	if update.Images != nil {
		room.Images = update.Images
	}
	if update.Location.Country != "" {
		room.Location = update.Location
	}

	err = service.store.Update(room)
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (service *RoomService) Delete(id primitive.ObjectID, hostId primitive.ObjectID) error {
	room, err := service.store.GetOneByID(id)
	if err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf(errors.RoomNotFound)
	}
	if room.HostId != hostId {
		return fmt.Errorf(errors.NotRoomOwner)
	}

	return service.store.Delete(id)
}

func (service *RoomService) GetPendingRooms() ([]*domain.Room, error) {
	return service.store.GetByStatus(domain.RoomPending)
}

// Approve/Reject only act on pending rooms; a moderated room needs a fresh
// admin action, it never flips back on its own.
func (service *RoomService) Approve(id primitive.ObjectID) (*domain.Room, error) {
	return service.moderate(id, domain.RoomApproved, "")
}

func (service *RoomService) Reject(id primitive.ObjectID, reason string) (*domain.Room, error) {
	if reason == "" {
		return nil, fmt.Errorf(errors.RejectReasonRequired)
	}
	return service.moderate(id, domain.RoomRejected, reason)
}

func (service *RoomService) moderate(id primitive.ObjectID, status domain.RoomStatus, reason string) (*domain.Room, error) {
	room, err := service.store.GetOneByID(id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf(errors.RoomNotFound)
	}
	if room.Status != domain.RoomPending {
		return nil, fmt.Errorf(errors.RoomAlreadyModerated)
	}

	err = service.store.UpdateStatus(id, status, reason)
	if err != nil {
		return nil, err
	}

	room.Status = status
	room.RejectReason = reason
	return room, nil
}
