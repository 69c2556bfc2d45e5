package store

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"openspace_backend/domain"
)

const (
	DATABASE        = "openspace"
	USER_COLLECTION = "users"
)

type UserMongoDBStore struct {
	users *mongo.Collection
}

func NewUserMongoDBStore(client *mongo.Client) domain.UserStore {
	users := client.Database(DATABASE).Collection(USER_COLLECTION)
	return &UserMongoDBStore{
		users: users,
	}
}

func (store *UserMongoDBStore) Insert(user *domain.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := store.users.InsertOne(context.TODO(), user)
	if err != nil {
		return err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (store *UserMongoDBStore) GetAll() ([]*domain.User, error) {
	return store.filter(bson.M{})
}

func (store *UserMongoDBStore) GetOneByEmail(email string) (*domain.User, error) {
	return store.filterOne(bson.M{"email": email})
}

func (store *UserMongoDBStore) GetOneByID(id primitive.ObjectID) (*domain.User, error) {
	return store.filterOne(bson.M{"_id": id})
}

func (store *UserMongoDBStore) Update(user *domain.User) error {
	user.UpdatedAt = time.Now()

	filter := bson.M{"_id": user.ID}
	update := bson.M{"$set": user}

	_, err := store.users.UpdateOne(context.TODO(), filter, update)
	return err
}

func (store *UserMongoDBStore) Delete(id primitive.ObjectID) error {
	_, err := store.users.DeleteOne(context.TODO(), bson.M{"_id": id})
	return err
}

func (store *UserMongoDBStore) SetBanned(id primitive.ObjectID, banned bool) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"isBanned": banned, "updatedAt": time.Now()}}

	_, err := store.users.UpdateOne(context.TODO(), filter, update)
	return err
}

func (store *UserMongoDBStore) GetPendingVerifications() ([]*domain.User, error) {
	return store.filter(bson.M{"identificationDocument.verificationStatus": domain.DocumentPending})
}

func (store *UserMongoDBStore) filter(filter interface{}) ([]*domain.User, error) {
	cursor, err := store.users.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	return decodeUsers(cursor)
}

func (store *UserMongoDBStore) filterOne(filter interface{}) (*domain.User, error) {
	result := store.users.FindOne(context.TODO(), filter)

	var user domain.User
	if err := result.Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		log.Println("Error decoding user:", err)
		return nil, err
	}

	return &user, nil
}

func decodeUsers(cursor *mongo.Cursor) (users []*domain.User, err error) {
	for cursor.Next(context.TODO()) {
		var user domain.User
		err = cursor.Decode(&user)
		if err != nil {
			return
		}
		users = append(users, &user)
	}
	err = cursor.Err()
	return
}
