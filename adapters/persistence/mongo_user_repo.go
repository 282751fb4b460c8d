package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	Avatar       string    `bson:"avatar"`
	PasswordHash string    `bson:"password"`
	CreatedAt    time.Time `bson:"date"`
}

func newUserDocument(u *user.User) userDocument {
	return userDocument{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Avatar:       u.Avatar,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (d userDocument) toDomain() (*user.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperror.NewInternal("stored user id is not a uuid", err)
	}
	return &user.User{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		Avatar:       d.Avatar,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) user.Repository {
	return &mongoUserRepo{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperror.NewInternal("failed to query user", err)
	}
	return doc.toDomain()
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *mongoUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	out := make(map[uuid.UUID]*user.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, apperror.NewInternal("failed to query users", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperror.NewInternal("failed to decode users", err)
	}
	for _, doc := range docs {
		u, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, nil
}

func (r *mongoUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, err := r.coll.InsertOne(ctx, newUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return apperror.NewInternal("failed to insert user", err)
	}
	return nil
}

func (r *mongoUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return apperror.NewInternal("failed to delete user", err)
	}
	if res.DeletedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
