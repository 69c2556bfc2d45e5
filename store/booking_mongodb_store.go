package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"openspace_backend/domain"
	"openspace_backend/errors"
)

const BOOKING_COLLECTION = "bookings"

type BookingMongoDBStore struct {
	bookings *mongo.Collection
	tracer   trace.Tracer
}

func NewBookingMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.BookingStore {
	bookings := client.Database(DATABASE).Collection(BOOKING_COLLECTION)
	return &BookingMongoDBStore{
		bookings: bookings,
		tracer:   tracer,
	}
}

func (store *BookingMongoDBStore) Insert(ctx context.Context, booking *domain.Booking) error {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.Insert")
	defer span.End()

	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	result, err := store.bookings.InsertOne(ctx, booking)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (store *BookingMongoDBStore) GetOneByID(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.GetOneByID")
	defer span.End()

	result := store.bookings.FindOne(ctx, bson.M{"_id": id})

	var booking domain.Booking
	if err := result.Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &booking, nil
}

func (store *BookingMongoDBStore) GetByGuest(ctx context.Context, guestId primitive.ObjectID) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.GetByGuest")
	defer span.End()

	return store.filter(ctx, bson.M{"guestId": guestId})
}

func (store *BookingMongoDBStore) GetByHost(ctx context.Context, hostId primitive.ObjectID) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.GetByHost")
	defer span.End()

	return store.filter(ctx, bson.M{"hostId": hostId})
}

// The from-status lives in the update filter so a stale caller matches
// nothing instead of overwriting a newer status.
func (store *BookingMongoDBStore) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, from, to domain.BookingStatus, reason string) error {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.UpdateStatusFrom")
	defer span.End()

	filter := bson.M{"_id": id, "bookingStatus": from}
	set := bson.M{"bookingStatus": to, "updatedAt": time.Now()}
	if reason != "" {
		switch to {
		case domain.BookingRejected:
			set["rejectReason"] = reason
		case domain.BookingCancelled:
			set["cancellationReason"] = reason
		}
	}

	result, err := store.bookings.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
		return err
	}

	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, errors.InvalidBookingTransition)
		return fmt.Errorf(errors.InvalidBookingTransition)
	}

	return nil
}

func (store *BookingMongoDBStore) MarkPaymentPaid(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.MarkPaymentPaid")
	defer span.End()

	filter := bson.M{
		"_id":           id,
		"paymentMethod": domain.PayAtProperty,
		"paymentStatus": domain.PaymentPending,
	}
	update := bson.M{"$set": bson.M{"paymentStatus": domain.PaymentPaid, "updatedAt": time.Now()}}

	result, err := store.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, errors.PaymentAlreadyPaid)
		return fmt.Errorf(errors.PaymentAlreadyPaid)
	}

	return nil
}

func (store *BookingMongoDBStore) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status domain.PaymentStatus) error {
	ctx, span := store.tracer.Start(ctx, "BookingMongoDBStore.UpdatePaymentStatus")
	defer span.End()

	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"paymentStatus": status, "updatedAt": time.Now()}}

	_, err := store.bookings.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (store *BookingMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Booking, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := store.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []*domain.Booking
	for cursor.Next(ctx) {
		var booking domain.Booking
		if err := cursor.Decode(&booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, &booking)
	}
	return bookings, cursor.Err()
}
