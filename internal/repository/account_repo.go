package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"esgcheck/internal/model"
)

var ErrDuplicateAccount = errors.New("user id already exists")

// AccountRepo handles MongoDB operations for company user accounts
type AccountRepo interface {
	Create(ctx context.Context, account *model.Account) error
	GetByUserID(ctx context.Context, userID string) (*model.Account, error)
	Count(ctx context.Context) (int64, error)
}

type accountRepo struct {
	collection *mongo.Collection
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *mongo.Database) AccountRepo {
	return &accountRepo{
		collection: db.Collection("accounts"),
	}
}

// EnsureAccountIndexes creates the unique index on userId
func EnsureAccountIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("accounts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, account)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateAccount
	}
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		account.ID = oid.Hex()
	}
	return nil
}

func (r *accountRepo) GetByUserID(ctx context.Context, userID string) (*model.Account, error) {
	var account model.Account
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
