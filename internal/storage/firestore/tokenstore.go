package firestore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
	"github.com/tinywideclouds/go-push-bridge/pkg/push"
)

// DefaultCollection is the root collection of the registration tree.
const DefaultCollection = "push_tokens"

// FirestoreStore implements dispatch.TokenStore using Google Cloud Firestore.
// Layout: {collection}/{userID}/devices/{deviceID}.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	logger     *slog.Logger
	now        func() time.Time
}

func NewFirestoreStore(client *firestore.Client, collection string, logger *slog.Logger) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{
		client:     client,
		collection: collection,
		logger:     logger.With("component", "FirestoreTokenStore"),
		now:        time.Now,
	}
}

// deviceRecord is the stored document.
type deviceRecord struct {
	Type      string    `firestore:"type"`
	Token     string    `firestore:"token"`
	AppID     string    `firestore:"app_id"`
	Locale    string    `firestore:"locale,omitempty"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func (r deviceRecord) device(id string) dispatch.Device {
	return dispatch.Device{
		DeviceID: id,
		Token: push.Token{
			Type:   push.TokenType(r.Type),
			Token:  r.Token,
			ID:     r.AppID,
			Locale: r.Locale,
		},
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *FirestoreStore) Register(ctx context.Context, userID string, device dispatch.Device) error {
	if device.DeviceID == "" {
		device.DeviceID = dispatch.DeviceID(device.Token.Token)
	}
	record := deviceRecord{
		Type:      string(device.Token.Type),
		Token:     device.Token.Token,
		AppID:     device.Token.ID,
		Locale:    device.Token.Locale,
		UpdatedAt: s.now().UTC(),
	}
	if _, err := s.deviceRef(userID, device.DeviceID).Set(ctx, record); err != nil {
		return fmt.Errorf("failed to register device %s for user %s: %w", device.DeviceID, userID, err)
	}
	s.logger.Debug("Device registered", "user_id", userID, "device_id", device.DeviceID, "type", record.Type)
	return nil
}

func (s *FirestoreStore) Unregister(ctx context.Context, userID, deviceID string) error {
	if _, err := s.deviceRef(userID, deviceID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to unregister device %s for user %s: %w", deviceID, userID, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, userID, deviceID string) (dispatch.Device, error) {
	doc, err := s.deviceRef(userID, deviceID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return dispatch.Device{}, dispatch.ErrNotFound
		}
		return dispatch.Device{}, fmt.Errorf("failed to get device %s: %w", deviceID, err)
	}
	var record deviceRecord
	if err := doc.DataTo(&record); err != nil {
		return dispatch.Device{}, fmt.Errorf("failed to decode device %s: %w", deviceID, err)
	}
	return record.device(doc.Ref.ID), nil
}

func (s *FirestoreStore) Fetch(ctx context.Context, userID string) ([]dispatch.Device, error) {
	iter := s.devicesCollection(userID).Documents(ctx)
	defer iter.Stop()

	devices := make([]dispatch.Device, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore iteration failed: %w", err)
		}

		var record deviceRecord
		if err := doc.DataTo(&record); err != nil {
			s.logger.Warn("Skipping unreadable device record", "user_id", userID, "device_id", doc.Ref.ID, "err", err)
			continue
		}
		if record.Token == "" {
			continue
		}
		devices = append(devices, record.device(doc.Ref.ID))
	}
	return devices, nil
}

func (s *FirestoreStore) deviceRef(userID, deviceID string) *firestore.DocumentRef {
	return s.devicesCollection(userID).Doc(deviceID)
}

func (s *FirestoreStore) devicesCollection(userID string) *firestore.CollectionRef {
	return s.client.Collection(s.collection).Doc(userID).Collection("devices")
}
