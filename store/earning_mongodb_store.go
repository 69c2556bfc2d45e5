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

const EARNING_COLLECTION = "earnings"

type EarningMongoDBStore struct {
	earnings *mongo.Collection
	tracer   trace.Tracer
}

func NewEarningMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.EarningStore {
	earnings := client.Database(DATABASE).Collection(EARNING_COLLECTION)
	return &EarningMongoDBStore{
		earnings: earnings,
		tracer:   tracer,
	}
}

func (store *EarningMongoDBStore) Insert(ctx context.Context, earning *domain.Earning) error {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.Insert")
	defer span.End()

	earning.ID = primitive.NewObjectID()
	if earning.CreatedAt.IsZero() {
		earning.CreatedAt = time.Now()
	}

	result, err := store.earnings.InsertOne(ctx, earning)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
		return err
	}
	earning.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (store *EarningMongoDBStore) GetOneByID(ctx context.Context, id primitive.ObjectID) (*domain.Earning, error) {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.GetOneByID")
	defer span.End()

	return store.filterOne(ctx, bson.M{"_id": id})
}

func (store *EarningMongoDBStore) GetByHost(ctx context.Context, hostId primitive.ObjectID) ([]*domain.Earning, error) {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.GetByHost")
	defer span.End()

	return store.filter(ctx, bson.M{"hostId": hostId})
}

func (store *EarningMongoDBStore) GetByHostAndStatus(ctx context.Context, hostId primitive.ObjectID, status domain.EarningStatus) ([]*domain.Earning, error) {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.GetByHostAndStatus")
	defer span.End()

	return store.filter(ctx, bson.M{"hostId": hostId, "status": status})
}

func (store *EarningMongoDBStore) GetOneByBooking(ctx context.Context, bookingId primitive.ObjectID) (*domain.Earning, error) {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.GetOneByBooking")
	defer span.End()

	return store.filterOne(ctx, bson.M{"bookingId": bookingId})
}

func (store *EarningMongoDBStore) MarkAvailableFrom(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.MarkAvailableFrom")
	defer span.End()

	filter := bson.M{"_id": id, "status": domain.EarningPending}
	update := bson.M{"$set": bson.M{"status": domain.EarningAvailable}}

	result, err := store.earnings.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, errors.InvalidEarningTransition)
		return fmt.Errorf(errors.InvalidEarningTransition)
	}

	return nil
}

func (store *EarningMongoDBStore) MarkPaidOut(ctx context.Context, id primitive.ObjectID, payoutRef string, paidOutDate time.Time) error {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.MarkPaidOut")
	defer span.End()

	filter := bson.M{"_id": id, "status": domain.EarningAvailable}
	update := bson.M{"$set": bson.M{
		"status":      domain.EarningPaidOut,
		"payoutRef":   payoutRef,
		"paidOutDate": paidOutDate,
	}}

	result, err := store.earnings.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if result.MatchedCount == 0 {
		span.SetStatus(codes.Error, errors.InvalidEarningTransition)
		return fmt.Errorf(errors.InvalidEarningTransition)
	}

	return nil
}

func (store *EarningMongoDBStore) UpdateAmount(ctx context.Context, id primitive.ObjectID, amount float64) error {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.UpdateAmount")
	defer span.End()

	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"amount": amount}}

	_, err := store.earnings.UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Paid-out records stay in the ledger forever; only money the host has not
// received yet can be taken back out.
func (store *EarningMongoDBStore) DeleteByBooking(ctx context.Context, bookingId primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.DeleteByBooking")
	defer span.End()

	filter := bson.M{
		"bookingId": bookingId,
		"status":    bson.M{"$in": bson.A{domain.EarningPending, domain.EarningAvailable}},
	}

	_, err := store.earnings.DeleteOne(ctx, filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
	}
	return err
}

func (store *EarningMongoDBStore) ReleaseDue(ctx context.Context, hostId primitive.ObjectID, now time.Time) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.ReleaseDue")
	defer span.End()

	filter := bson.M{
		"hostId":        hostId,
		"status":        domain.EarningPending,
		"availableDate": bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{"status": domain.EarningAvailable}}

	result, err := store.earnings.UpdateMany(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (store *EarningMongoDBStore) ReleaseAllPendingOnline(ctx context.Context) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "EarningMongoDBStore.ReleaseAllPendingOnline")
	defer span.End()

	filter := bson.M{
		"status": domain.EarningPending,
		"paymentMethod": bson.M{"$in": []domain.PaymentMethod{
			domain.PayByCard, domain.PayByGcash, domain.PayByMaya,
		}},
	}
	update := bson.M{"$set": bson.M{"status": domain.EarningAvailable}}

	result, err := store.earnings.UpdateMany(ctx, filter, update)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Println(err)
		return 0, err
	}

	return result.ModifiedCount, nil
}

func (store *EarningMongoDBStore) filterOne(ctx context.Context, filter interface{}) (*domain.Earning, error) {
	result := store.earnings.FindOne(ctx, filter)

	var earning domain.Earning
	if err := result.Decode(&earning); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &earning, nil
}

func (store *EarningMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Earning, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := store.earnings.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var earnings []*domain.Earning
	for cursor.Next(ctx) {
		var earning domain.Earning
		if err := cursor.Decode(&earning); err != nil {
			return nil, err
		}
		earnings = append(earnings, &earning)
	}
	return earnings, cursor.Err()
}
