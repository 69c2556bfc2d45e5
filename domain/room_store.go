package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type RoomStore interface {
	Insert(room *Room) error
	GetOneByID(id primitive.ObjectID) (*Room, error)
	GetApproved() ([]*Room, error)
	GetByHost(hostId primitive.ObjectID) ([]*Room, error)
	GetByStatus(status RoomStatus) ([]*Room, error)
	Update(room *Room) error
	UpdateStatus(id primitive.ObjectID, status RoomStatus, reason string) error
	Delete(id primitive.ObjectID) error
}
