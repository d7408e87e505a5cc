// Package mongo persists conversation messages in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roshanis/bandhubol/internal/analysis/mood"
	"github.com/roshanis/bandhubol/internal/model/chat"
	"github.com/roshanis/bandhubol/internal/service/conversation"
)

// MessagesCollection is the name of the messages collection.
const MessagesCollection = "messages"

type messageDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	AvatarID  string    `bson:"avatar_id"`
	Role      string    `bson:"role"`
	Content   string    `bson:"content"`
	MoodTag   *string   `bson:"mood_tag"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store wraps the messages collection.
type Store struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

// NewStore creates a message store over the given database.
func NewStore(db *mongo.Database, logger zerolog.Logger) *Store {
	return &Store{coll: db.Collection(MessagesCollection), log: logger}
}

// Connect dials MongoDB and verifies the connection.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// Conversation binds the store to one user/avatar pair, satisfying the
// conversation core's MessagePersistence contract.
func (s *Store) Conversation(userID, avatarID string) conversation.MessagePersistence {
	return &conversationStore{store: s, userID: userID, avatarID: avatarID}
}

type conversationStore struct {
	store    *Store
	userID   string
	avatarID string
}

// FetchRecentMessages returns up to limit messages in chronological order.
// Read failures downgrade to an empty history: a read hiccup should never
// block the user from chatting.
func (c *conversationStore) FetchRecentMessages(ctx context.Context, userID, avatarID string, limit int) ([]chat.Message, error) {
	filter := bson.M{"user_id": userID, "avatar_id": avatarID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := c.store.coll.Find(ctx, filter, opts)
	if err != nil {
		c.store.log.Warn().Err(err).Str("user", userID).Str("avatar", avatarID).
			Msg("fetching messages failed, continuing without history")
		return nil, nil
	}

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		c.store.log.Warn().Err(err).Str("user", userID).Str("avatar", avatarID).
			Msg("decoding messages failed, continuing without history")
		return nil, nil
	}

	// Newest-first from the query; reverse into chronological order.
	messages := make([]chat.Message, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		messages = append(messages, docToMessage(docs[i]))
	}
	return messages, nil
}

// SaveMessagePair inserts both turn messages. Write failures propagate:
// a lost write must never be silent.
func (c *conversationStore) SaveMessagePair(ctx context.Context, userMessage, assistantMessage chat.Message, tag mood.Tag) error {
	moodTag := string(tag)
	docs := []any{
		messageDoc{
			ID:        userMessage.ID,
			UserID:    c.userID,
			AvatarID:  c.avatarID,
			Role:      string(userMessage.Role),
			Content:   userMessage.Content,
			MoodTag:   &moodTag,
			CreatedAt: userMessage.CreatedAt,
		},
		messageDoc{
			ID:        assistantMessage.ID,
			UserID:    c.userID,
			AvatarID:  c.avatarID,
			Role:      string(assistantMessage.Role),
			Content:   assistantMessage.Content,
			MoodTag:   nil,
			CreatedAt: assistantMessage.CreatedAt,
		},
	}

	if _, err := c.store.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert message pair: %w", err)
	}
	return nil
}

func docToMessage(doc messageDoc) chat.Message {
	msg := chat.Message{
		ID:        doc.ID,
		Role:      chat.Role(doc.Role),
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
	if doc.MoodTag != nil {
		msg.MoodTag = mood.Tag(*doc.MoodTag)
	}
	return msg
}
