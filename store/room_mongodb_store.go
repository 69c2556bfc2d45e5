package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"openspace_backend/domain"
)

const ROOM_COLLECTION = "rooms"

type RoomMongoDBStore struct {
	rooms *mongo.Collection
}

func NewRoomMongoDBStore(client *mongo.Client) domain.RoomStore {
	rooms := client.Database(DATABASE).Collection(ROOM_COLLECTION)
	return &RoomMongoDBStore{
		rooms: rooms,
	}
}

func (store *RoomMongoDBStore) Insert(room *domain.Room) error {
	room.ID = primitive.NewObjectID()
	room.Status = domain.RoomPending
	room.CreatedAt = time.Now()
	room.UpdatedAt = room.CreatedAt

	result, err := store.rooms.InsertOne(context.TODO(), room)
	if err != nil {
		return err
	}
	room.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (store *RoomMongoDBStore) GetOneByID(id primitive.ObjectID) (*domain.Room, error) {
	result := store.rooms.FindOne(context.TODO(), bson.M{"_id": id})

	var room domain.Room
	if err := result.Decode(&room); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &room, nil
}

// Only approved rooms are part of the public marketplace.
func (store *RoomMongoDBStore) GetApproved() ([]*domain.Room, error) {
	return store.filter(bson.M{"status": domain.RoomApproved})
}

func (store *RoomMongoDBStore) GetByHost(hostId primitive.ObjectID) ([]*domain.Room, error) {
	return store.filter(bson.M{"hostId": hostId})
}

func (store *RoomMongoDBStore) GetByStatus(status domain.RoomStatus) ([]*domain.Room, error) {
	return store.filter(bson.M{"status": status})
}

func (store *RoomMongoDBStore) Update(room *domain.Room) error {
	room.UpdatedAt = time.Now()

	filter := bson.M{"_id": room.ID}
	update := bson.M{"$set": room}

	_, err := store.rooms.UpdateOne(context.TODO(), filter, update)
	return err
}

func (store *RoomMongoDBStore) UpdateStatus(id primitive.ObjectID, status domain.RoomStatus, reason string) error {
	filter := bson.M{"_id": id}
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if reason != "" {
		set["rejectReason"] = reason
	}

	_, err := store.rooms.UpdateOne(context.TODO(), filter, bson.M{"$set": set})
	return err
}

func (store *RoomMongoDBStore) Delete(id primitive.ObjectID) error {
	_, err := store.rooms.DeleteOne(context.TODO(), bson.M{"_id": id})
	return err
}

func (store *RoomMongoDBStore) filter(filter interface{}) ([]*domain.Room, error) {
	cursor, err := store.rooms.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var rooms []*domain.Room
	for cursor.Next(context.TODO()) {
		var room domain.Room
		if err := cursor.Decode(&room); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}
	return rooms, cursor.Err()
}
