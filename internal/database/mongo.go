package database

import (
	"context"
	"fmt"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"regbot/entity"
	"regbot/internal/config"
	"time"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) *MongoDB {
	if !conf.Mongo.Enabled {
		return nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	_ = connection.Disconnect(m.ctx)
}

func (m *MongoDB) collection(connection *mongo.Client, flow entity.Flow) (*mongo.Collection, error) {
	name, err := tableFor(flow)
	if err != nil {
		return nil, err
	}
	return connection.Database(m.database).Collection(name), nil
}

// EnsureIndexes creates the unique chat_id index on every flow collection.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	for _, flow := range []entity.Flow{entity.FlowGeneral, entity.FlowStudyCenter} {
		collection, err := m.collection(connection, flow)
		if err != nil {
			return err
		}
		_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{"chat_id", 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("create index on %s: %w", flow, err)
		}
	}
	return nil
}

// GetOrCreate returns the record for the chat, inserting a fresh one atomically if missing.
func (m *MongoDB) GetOrCreate(ctx context.Context, flow entity.Flow, chatId int64) (*entity.Registration, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection, err := m.collection(connection, flow)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	filter := bson.D{{"chat_id", chatId}}
	update := bson.D{{"$setOnInsert", bson.D{
		{"chat_id", chatId},
		{"flow", flow},
		{"state", entity.StateStart},
		{"is_subscribed", false},
		{"created_at", now},
		{"updated_at", now},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var reg entity.Registration
	if err = collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&reg); err != nil {
		return nil, fmt.Errorf("mongodb get or create: %w", err)
	}
	return &reg, nil
}

// UpdateRegistration writes the mutable fields; chat_id and created_at are never touched.
func (m *MongoDB) UpdateRegistration(ctx context.Context, reg *entity.Registration) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection, err := m.collection(connection, reg.Flow)
	if err != nil {
		return err
	}
	filter := bson.D{{"chat_id", reg.ChatId}}
	update := bson.D{{"$set", bson.D{
		{"full_name", reg.FullName},
		{"school", reg.School},
		{"grade", reg.Grade},
		{"subjects", reg.Subjects},
		{"phone", reg.Phone},
		{"is_subscribed", reg.IsSubscribed},
		{"state", reg.State},
		{"updated_at", time.Now()},
	}}}
	_, err = collection.UpdateOne(ctx, filter, update)
	return err
}

func (m *MongoDB) SubscribedRegistrations(ctx context.Context, flow entity.Flow) ([]*entity.Registration, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection, err := m.collection(connection, flow)
	if err != nil {
		return nil, err
	}
	filter := bson.D{{"is_subscribed", true}}
	opts := options.Find().SetSort(bson.D{{"created_at", -1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var list []*entity.Registration
	err = cursor.All(ctx, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (m *MongoDB) CountRegistrations(ctx context.Context, flow entity.Flow, subscribed bool) (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection, err := m.collection(connection, flow)
	if err != nil {
		return 0, err
	}
	return collection.CountDocuments(ctx, bson.D{{"is_subscribed", subscribed}})
}
