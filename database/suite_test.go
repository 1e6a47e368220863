package database_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/rpupo63/blog-platform/database"
	"github.com/rpupo63/blog-platform/models"
)

type DBTestSuite struct {
	suite.Suite

	gormDB *gorm.DB
	db     database.Database
	ctx    context.Context
}

// TestRunSuite needs a disposable PostgreSQL database in TEST_DATABASE_URL.
func TestRunSuite(t *testing.T) {
	err := godotenv.Load("../.env")
	var pe *fs.PathError
	if err != nil && !errors.As(err, &pe) {
		t.Fatal(err)
	}

	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	suite.Run(t, new(DBTestSuite))
}

func (s *DBTestSuite) SetupSuite() {
	url := os.Getenv("TEST_DATABASE_URL")
	s.Require().NoError(database.RunMigrations(url))

	var err error
	s.gormDB, err = database.Connect(url, false)
	s.Require().NoError(err)

	s.db = database.New(s.gormDB)
	s.ctx = context.Background()
}

func (s *DBTestSuite) TearDownTest() {
	s.Require().NoError(s.gormDB.Exec("TRUNCATE comments, blogs, users RESTART IDENTITY CASCADE").Error)
}

func (s *DBTestSuite) TearDownSuite() {
	s.Require().NoError(s.db.Close())
}

func (s *DBTestSuite) addUser(subject, first, last string) *models.User {
	u, err := s.db.UserRepo().Upsert(s.ctx, &models.User{SubjectID: subject, FirstName: first, LastName: last})
	s.Require().NoError(err)
	return u
}

func (s *DBTestSuite) TestPing() {
	s.Require().NoError(s.db.Ping(s.ctx))
}

func (s *DBTestSuite) TestSchemaHasNoDrift() {
	drift, err := models.CheckSchema(s.gormDB)
	s.Require().NoError(err)
	s.Require().Empty(drift)
}

func (s *DBTestSuite) TestUserUpsertKeepsCreatedAt() {
	// Arrange
	first := s.addUser("u_1", "Ada", "Byron")

	// Act
	second := s.addUser("u_1", "Ada", "Lovelace")

	// Assert
	s.Require().Equal("Lovelace", second.LastName)
	s.Require().True(first.CreatedAt.Equal(second.CreatedAt))

	found, err := s.db.UserRepo().FindBySubjectID(s.ctx, "u_1")
	s.Require().NoError(err)
	s.Require().Equal(second, found)
}

func (s *DBTestSuite) TestUserNotFound() {
	found, err := s.db.UserRepo().FindBySubjectID(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Require().Nil(found)
}

func (s *DBTestSuite) TestBlogRoundTrip() {
	// Arrange
	s.addUser("u_1", "Ada", "Lovelace")
	blog := &models.Blog{Title: "Notes", Content: "On the analytical engine", AuthorID: "u_1"}

	// Act
	s.Require().NoError(s.db.BlogRepo().Add(s.ctx, blog))

	// Assert
	s.Require().NotZero(blog.ID)
	s.Require().WithinDuration(time.Now(), blog.CreatedAt, time.Minute)

	found, err := s.db.BlogRepo().FindByID(s.ctx, blog.ID)
	s.Require().NoError(err)
	s.Require().Equal(blog.Title, found.Title)
	s.Require().Equal(blog.Content, found.Content)
	s.Require().Equal("u_1", found.AuthorID)
	s.Require().Equal("Ada", found.FirstName)
	s.Require().Equal("Lovelace", found.LastName)

	exists, err := s.db.BlogRepo().Exists(s.ctx, blog.ID)
	s.Require().NoError(err)
	s.Require().True(exists)
}

func (s *DBTestSuite) TestBlogFindAllNewestFirst() {
	s.addUser("u_1", "Ada", "Lovelace")
	for _, title := range []string{"first", "second", "third"} {
		s.Require().NoError(s.db.BlogRepo().Add(s.ctx, &models.Blog{Title: title, Content: "x", AuthorID: "u_1"}))
	}

	blogs, err := s.db.BlogRepo().FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(blogs, 3)
	s.Require().Equal("third", blogs[0].Title)
	s.Require().Equal("first", blogs[2].Title)
}

func (s *DBTestSuite) TestBlogMissing() {
	found, err := s.db.BlogRepo().FindByID(s.ctx, 999)
	s.Require().NoError(err)
	s.Require().Nil(found)

	exists, err := s.db.BlogRepo().Exists(s.ctx, 999)
	s.Require().NoError(err)
	s.Require().False(exists)
}

func (s *DBTestSuite) TestBlogRequiresExistingAuthor() {
	err := s.db.BlogRepo().Add(s.ctx, &models.Blog{Title: "t", Content: "c", AuthorID: "ghost"})
	s.Require().ErrorIs(err, gorm.ErrForeignKeyViolated)
}

func (s *DBTestSuite) TestCommentsOldestFirst() {
	// Arrange
	s.addUser("u_1", "Ada", "Lovelace")
	s.addUser("u_2", "Charles", "Babbage")
	blog := &models.Blog{Title: "t", Content: "c", AuthorID: "u_1"}
	s.Require().NoError(s.db.BlogRepo().Add(s.ctx, blog))

	s.Require().NoError(s.db.CommentRepo().Add(s.ctx, &models.Comment{Content: "one", UserID: "u_2", BlogID: blog.ID}))
	s.Require().NoError(s.db.CommentRepo().Add(s.ctx, &models.Comment{Content: "two", UserID: "u_1", BlogID: blog.ID}))

	// Act
	comments, err := s.db.CommentRepo().FindByBlogID(s.ctx, blog.ID)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(comments, 2)
	s.Require().Equal("one", comments[0].Content)
	s.Require().Equal("Charles", comments[0].FirstName)
	s.Require().Equal("two", comments[1].Content)
}

func (s *DBTestSuite) TestCommentsForUnknownBlogIsEmpty() {
	comments, err := s.db.CommentRepo().FindByBlogID(s.ctx, 42)
	s.Require().NoError(err)
	s.Require().NotNil(comments)
	s.Require().Empty(comments)
}

func (s *DBTestSuite) TestCommentRequiresExistingBlog() {
	s.addUser("u_1", "Ada", "Lovelace")
	err := s.db.CommentRepo().Add(s.ctx, &models.Comment{Content: "c", UserID: "u_1", BlogID: 12345})
	s.Require().ErrorIs(err, gorm.ErrForeignKeyViolated)
}
