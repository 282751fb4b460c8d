package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

type socialDocument struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type experienceDocument struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDocument struct {
	ID           string     `bson:"_id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type profileDocument struct {
	UserID         string               `bson:"_id"`
	Company        string               `bson:"company,omitempty"`
	Website        string               `bson:"website,omitempty"`
	Location       string               `bson:"location,omitempty"`
	Bio            string               `bson:"bio,omitempty"`
	Status         string               `bson:"status,omitempty"`
	GitHubUsername string               `bson:"githubusername,omitempty"`
	Skills         []string             `bson:"skills"`
	Social         socialDocument       `bson:"social"`
	Experience     []experienceDocument `bson:"experience"`
	Education      []educationDocument  `bson:"education"`
	CreatedAt      time.Time            `bson:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt"`
}

func newProfileDocument(p *profile.Profile) profileDocument {
	return profileDocument{
		UserID:         p.UserID.String(),
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         append([]string{}, p.Skills...),
		Social:         socialDocument(p.Social),
		Experience:     experienceDocuments(p.Experience),
		Education:      educationDocuments(p.Education),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func experienceDocuments(es profile.Entries[profile.Experience]) []experienceDocument {
	out := make([]experienceDocument, len(es))
	for i, e := range es {
		out[i] = experienceDocument{
			ID: e.ID.String(), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return out
}

func educationDocuments(es profile.Entries[profile.Education]) []educationDocument {
	out := make([]educationDocument, len(es))
	for i, e := range es {
		out[i] = educationDocument{
			ID: e.ID.String(), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return out
}

func (d profileDocument) toDomain() (*profile.Profile, error) {
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, apperror.NewInternal("stored profile id is not a uuid", err)
	}
	p := &profile.Profile{
		UserID:         userID,
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Bio:            d.Bio,
		Status:         d.Status,
		GitHubUsername: d.GitHubUsername,
		Skills:         append([]string{}, d.Skills...),
		Social:         profile.Social(d.Social),
		Experience:     make(profile.Entries[profile.Experience], 0, len(d.Experience)),
		Education:      make(profile.Entries[profile.Education], 0, len(d.Education)),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, e := range d.Experience {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, apperror.NewInternal("stored experience id is not a uuid", err)
		}
		p.Experience = append(p.Experience, profile.Experience{
			ID: id, Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		})
	}
	for _, e := range d.Education {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, apperror.NewInternal("stored education id is not a uuid", err)
		}
		p.Education = append(p.Education, profile.Education{
			ID: id, School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		})
	}
	return p, nil
}

type mongoProfileRepo struct {
	coll *mongo.Collection
}

// NewMongoProfileRepo keeps one document per user, keyed by the user id, with
// both sub-collections embedded.
func NewMongoProfileRepo(db *mongo.Database) profile.Repository {
	return &mongoProfileRepo{coll: db.Collection(profilesCollection)}
}

func (r *mongoProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	var doc profileDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to query profile", err)
	}
	return doc.toDomain()
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, apperror.NewInternal("failed to list profiles", err)
	}

	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperror.NewInternal("failed to decode profiles", err)
	}

	profiles := make([]*profile.Profile, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *mongoProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	if _, err := r.coll.InsertOne(ctx, newProfileDocument(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return profile.ErrProfileExists
		}
		return apperror.NewInternal("failed to insert profile", err)
	}
	return nil
}

// UpdateFields sets only the provided paths, so social links merge per key.
func (r *mongoProfileRepo) UpdateFields(ctx context.Context, userID uuid.UUID, f profile.Fields, now time.Time) (*profile.Profile, error) {
	set := bson.M{"updatedAt": now}
	for name, value := range f.Scalars() {
		set[name] = value
	}
	if skills, ok := f.Skills.Get(); ok {
		set[profile.FieldSkills] = skills
	}
	for name, value := range f.Social.Values() {
		set[profile.FieldSocial+"."+name] = value
	}
	return r.update(ctx, userID, set)
}

func (r *mongoProfileRepo) ReplaceExperience(ctx context.Context, userID uuid.UUID, entries profile.Entries[profile.Experience], now time.Time) (*profile.Profile, error) {
	return r.update(ctx, userID, bson.M{"experience": experienceDocuments(entries), "updatedAt": now})
}

func (r *mongoProfileRepo) ReplaceEducation(ctx context.Context, userID uuid.UUID, entries profile.Entries[profile.Education], now time.Time) (*profile.Profile, error) {
	return r.update(ctx, userID, bson.M{"education": educationDocuments(entries), "updatedAt": now})
}

func (r *mongoProfileRepo) update(ctx context.Context, userID uuid.UUID, set bson.M) (*profile.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc profileDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": userID.String()}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, apperror.NewInternal("failed to update profile", err)
	}
	return doc.toDomain()
}

func (r *mongoProfileRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": userID.String()})
	if err != nil {
		return apperror.NewInternal("failed to delete profile", err)
	}
	if res.DeletedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
