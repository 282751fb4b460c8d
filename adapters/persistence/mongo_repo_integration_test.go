package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type MongoRepoIntegrationTestSuite struct {
	suite.Suite
	db             *mongo.Database
	mongoContainer *mongodb.MongoDBContainer
	profileRepo    profile.Repository
	userRepo       user.Repository
	testOwner      *user.User
}

func (s *MongoRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		s.T().Fatalf("Failed to start mongo container: %s", err)
	}
	s.mongoContainer = mongoContainer

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	var cfg config.Config
	cfg.Mongo.URI = uri
	cfg.Mongo.Database = "devconnector_test"
	db, err := NewMongoDatabase(ctx, cfg, logger.NewNopLogger())
	if err != nil {
		s.T().Fatalf("Failed to connect mongo: %s", err)
	}
	s.db = db

	s.profileRepo = NewMongoProfileRepo(s.db)
	s.userRepo = NewMongoUserRepo(s.db)
}

func (s *MongoRepoIntegrationTestSuite) SetupTest() {
	ctx := context.Background()
	for _, name := range []string{profilesCollection, usersCollection} {
		_, err := s.db.Collection(name).DeleteMany(ctx, bson.M{})
		s.Require().NoError(err)
	}

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Name:         "Test Owner",
		Email:        "testowner@example.com",
		Avatar:       user.GravatarURL("testowner@example.com"),
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	s.Require().NoError(s.userRepo.Create(ctx, s.testOwner))
}

func (s *MongoRepoIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()
	if s.db != nil {
		_ = s.db.Client().Disconnect(ctx)
	}
	if s.mongoContainer != nil {
		if err := s.mongoContainer.Terminate(ctx); err != nil {
			s.T().Fatalf("Failed to terminate mongo container: %s", err)
		}
	}
}

func TestMongoRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(MongoRepoIntegrationTestSuite))
}

func (s *MongoRepoIntegrationTestSuite) Test_User_CreateAndFind() {
	ctx := context.Background()

	found, err := s.userRepo.FindByEmail(ctx, "testowner@example.com")
	s.Require().NoError(err)
	s.Equal(s.testOwner.ID, found.ID)
	s.Equal("hashedpassword", found.PasswordHash)
	s.True(found.CreatedAt.Equal(s.testOwner.CreatedAt))

	dup := *s.testOwner
	dup.ID = uuid.New()
	s.ErrorIs(s.userRepo.Create(ctx, &dup), user.ErrEmailTaken)

	byIDs, err := s.userRepo.FindByIDs(ctx, []uuid.UUID{s.testOwner.ID, uuid.New()})
	s.Require().NoError(err)
	s.Len(byIDs, 1)
	s.Equal("Test Owner", byIDs[s.testOwner.ID].Name)

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)

	s.Require().NoError(s.userRepo.Delete(ctx, s.testOwner.ID))
	s.ErrorIs(s.userRepo.Delete(ctx, s.testOwner.ID), user.ErrUserNotFound)
}

func (s *MongoRepoIntegrationTestSuite) Test_Create_And_PartialUpdate() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	p := profile.New(s.testOwner.ID, profile.Fields{
		Company: profile.Text("Acme"),
		Status:  profile.Text("Developer"),
		Skills:  profile.ParseSkills("go, sql"),
		Social:  profile.SocialFields{Twitter: profile.Text("@owner")},
	}, now)
	s.Require().NoError(s.profileRepo.Create(ctx, p))
	s.ErrorIs(s.profileRepo.Create(ctx, p), profile.ErrProfileExists)

	updated, err := s.profileRepo.UpdateFields(ctx, s.testOwner.ID, profile.Fields{
		Location: profile.Text("NYC"),
		Social:   profile.SocialFields{LinkedIn: profile.Text("in/owner")},
	}, now.Add(time.Minute))
	s.Require().NoError(err)

	s.Equal("Acme", updated.Company)
	s.Equal("NYC", updated.Location)
	s.Equal("Developer", updated.Status)
	s.Empty(updated.Bio)
	s.Equal([]string{"go", "sql"}, updated.Skills)
	s.Equal("@owner", updated.Social.Twitter)
	s.Equal("in/owner", updated.Social.LinkedIn)
	s.True(updated.CreatedAt.Equal(now))
	s.True(updated.UpdatedAt.Equal(now.Add(time.Minute)))

	_, err = s.profileRepo.UpdateFields(ctx, uuid.New(), profile.Fields{Bio: profile.Text("x")}, now)
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

func (s *MongoRepoIntegrationTestSuite) Test_ReplaceSubCollections() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	s.Require().NoError(s.profileRepo.Create(ctx, profile.New(s.testOwner.ID, profile.Fields{Status: profile.Text("Dev")}, now)))

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	exps := profile.Entries[profile.Experience]{
		{ID: uuid.New(), Title: "Lead", Company: "Acme", From: from, Current: true},
		{ID: uuid.New(), Title: "Engineer", Company: "Initech", From: from.AddDate(-2, 0, 0), To: &to},
	}
	updated, err := s.profileRepo.ReplaceExperience(ctx, s.testOwner.ID, exps, now)
	s.Require().NoError(err)
	s.Require().Len(updated.Experience, 2)
	s.Equal(exps[0].ID, updated.Experience[0].ID)
	s.Equal(exps[1].ID, updated.Experience[1].ID)
	s.Equal("Engineer", updated.Experience[1].Title)
	s.Nil(updated.Experience[0].To)
	s.Require().NotNil(updated.Experience[1].To)
	s.True(updated.Experience[1].To.Equal(to))
	s.Empty(updated.Education)

	edus := profile.Entries[profile.Education]{{ID: uuid.New(), School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from}}
	updated, err = s.profileRepo.ReplaceEducation(ctx, s.testOwner.ID, edus, now)
	s.Require().NoError(err)
	s.Require().Len(updated.Education, 1)
	s.Equal(edus[0].ID, updated.Education[0].ID)
	s.Len(updated.Experience, 2)

	stored, err := s.profileRepo.FindByUserID(ctx, s.testOwner.ID)
	s.Require().NoError(err)
	s.Equal(updated.Experience[0].ID, stored.Experience[0].ID)

	_, err = s.profileRepo.ReplaceEducation(ctx, uuid.New(), edus, now)
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

func (s *MongoRepoIntegrationTestSuite) Test_List_And_Delete() {
	ctx := context.Background()
	s.Require().NoError(s.profileRepo.Create(ctx, profile.New(s.testOwner.ID, profile.Fields{Status: profile.Text("Dev")}, time.Now().UTC())))

	list, err := s.profileRepo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(s.testOwner.ID, list[0].UserID)

	s.Require().NoError(s.profileRepo.Delete(ctx, s.testOwner.ID))
	s.ErrorIs(s.profileRepo.Delete(ctx, s.testOwner.ID), profile.ErrProfileNotFound)

	_, err = s.profileRepo.FindByUserID(ctx, s.testOwner.ID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
}
