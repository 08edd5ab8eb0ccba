package services

import (
	"context"
	"fmt"
	"regexp"

	"event-hub/internal/status"
	"event-hub/models"
	"event-hub/monitoring"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const EventsCollection = "events"

type EventService struct {
	Events   *mongo.Collection
	Notifier Notifier
	Monitor  *monitoring.Monitor
}

func NewEventService(db *mongo.Database, notifier Notifier, monitor *monitoring.Monitor) *EventService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &EventService{
		Events:   db.Collection(EventsCollection),
		Notifier: notifier,
		Monitor:  monitor,
	}
}

// Create inserts the submitted body. Unknown fields are stored unchanged.
func (s *EventService) Create(ctx context.Context, body map[string]any) (*models.InsertResult, error) {
	res, err := s.Events.InsertOne(ctx, models.NewEvent(body))
	s.Monitor.TrackStoreOperation(EventsCollection, "insert", err)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.Notifier.Notify(EventChange{Type: EventCreated, EventID: id.Hex()})
	}

	return &models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// Join adds email to the event's attendee set. The filter excludes events the
// user already joined, so a second join modifies nothing and reports
// status.ErrAlreadyJoined. An unknown event id reports the same error.
func (s *EventService) Join(ctx context.Context, id, email string) error {
	if email == "" {
		return status.ErrEmailRequired
	}
	oid, err := parseEventID(id)
	if err != nil {
		return err
	}

	filter := bson.M{models.FieldID: oid, models.FieldAttendeeCount: bson.M{"$ne": email}}
	update := bson.M{"$addToSet": bson.M{models.FieldAttendeeCount: email}}

	res, err := s.Events.UpdateOne(ctx, filter, update)
	s.Monitor.TrackStoreOperation(EventsCollection, "join", err)
	if err != nil {
		s.Monitor.TrackJoin(monitoring.JoinFailed)
		return fmt.Errorf("join event %s: %w", id, err)
	}

	if res.ModifiedCount == 0 {
		s.Monitor.TrackJoin(monitoring.JoinAlreadyJoined)
		return status.ErrAlreadyJoined
	}

	s.Monitor.TrackJoin(monitoring.JoinJoined)
	s.Notifier.Notify(EventChange{Type: EventAttendee, EventID: oid.Hex(), Email: email})
	return nil
}

// List returns stored event documents ordered by dateTime ascending. A
// non-empty search is matched literally and case-insensitively against the title.
func (s *EventService) List(ctx context.Context, search string) ([]models.Event, error) {
	filter := bson.M{}
	if search != "" {
		filter[models.FieldTitle] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: models.FieldDateTime, Value: 1}})

	cursor, err := s.Events.Find(ctx, filter, opts)
	s.Monitor.TrackStoreOperation(EventsCollection, "find", err)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// Replace overwrites every managed field. A missing attendee list resets it
// to empty and a missing dateTime is stored as null.
func (s *EventService) Replace(ctx context.Context, id string, in models.EventInput) (*models.UpdateResult, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}
	fields, err := in.Replacement()
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M(fields)}

	res, err := s.Events.UpdateOne(ctx, bson.M{"_id": oid}, update)
	s.Monitor.TrackStoreOperation(EventsCollection, "update", err)
	if err != nil {
		return nil, fmt.Errorf("update event %s: %w", id, err)
	}

	if res.MatchedCount > 0 {
		s.Notifier.Notify(EventChange{Type: EventUpdated, EventID: oid.Hex()})
	}

	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (s *EventService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	res, err := s.Events.DeleteOne(ctx, bson.M{"_id": oid})
	s.Monitor.TrackStoreOperation(EventsCollection, "delete", err)
	if err != nil {
		return nil, fmt.Errorf("delete event %s: %w", id, err)
	}

	if res.DeletedCount > 0 {
		s.Notifier.Notify(EventChange{Type: EventDeleted, EventID: oid.Hex()})
	}

	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func parseEventID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, status.ErrInvalidID
	}
	return oid, nil
}
