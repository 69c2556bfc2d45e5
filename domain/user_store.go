package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type UserStore interface {
	Insert(user *User) error
	GetAll() ([]*User, error)
	GetOneByEmail(email string) (*User, error)
	GetOneByID(id primitive.ObjectID) (*User, error)
	Update(user *User) error
	Delete(id primitive.ObjectID) error
	SetBanned(id primitive.ObjectID, banned bool) error
	GetPendingVerifications() ([]*User, error)
}
