package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rpupo63/blog-platform/models"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	stored, ok := f.users[user.SubjectID]
	if !ok {
		stored = models.User{SubjectID: user.SubjectID, CreatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	}
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	f.users[user.SubjectID] = stored
	return &stored, nil
}

func (f *fakeUserRepo) FindBySubjectID(_ context.Context, subjectID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	user, ok := f.users[subjectID]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (f *fakeUserRepo) names(subjectID string) (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[subjectID]
	return u.FirstName, u.LastName
}

type fakeBlogRepo struct {
	mu          sync.Mutex
	users       *fakeUserRepo
	blogs       []models.Blog
	nextID      int64
	addCalls    int
	existsCalls int
	err         error
	panicOnRead bool
}

func newFakeBlogRepo(users *fakeUserRepo) *fakeBlogRepo {
	return &fakeBlogRepo{users: users, nextID: 1}
}

func (f *fakeBlogRepo) Add(_ context.Context, blog *models.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.err != nil {
		return f.err
	}

	blog.ID = f.nextID
	f.nextID++
	// distinct timestamps keep ordering deterministic
	blog.CreatedAt = time.Now().UTC().Add(time.Duration(blog.ID) * time.Millisecond)
	f.blogs = append(f.blogs, *blog)
	return nil
}

func (f *fakeBlogRepo) view(b models.Blog) models.BlogView {
	first, last := f.users.names(b.AuthorID)
	return models.BlogView{Blog: b, FirstName: first, LastName: last}
}

func (f *fakeBlogRepo) FindAll(_ context.Context) ([]models.BlogView, error) {
	if f.panicOnRead {
		panic("blog store exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	views := []models.BlogView{}
	for _, b := range f.blogs {
		views = append(views, f.view(b))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

func (f *fakeBlogRepo) FindByID(_ context.Context, id int64) (*models.BlogView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	for _, b := range f.blogs {
		if b.ID == id {
			v := f.view(b)
			return &v, nil
		}
	}
	return nil, nil
}

func (f *fakeBlogRepo) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.err != nil {
		return false, f.err
	}

	for _, b := range f.blogs {
		if b.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	users    *fakeUserRepo
	comments []models.Comment
	nextID   int64
	addCalls int
}

func newFakeCommentRepo(users *fakeUserRepo) *fakeCommentRepo {
	return &fakeCommentRepo{users: users, nextID: 1}
}

func (f *fakeCommentRepo) Add(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++

	comment.ID = f.nextID
	f.nextID++
	comment.CreatedAt = time.Now().UTC().Add(time.Duration(comment.ID) * time.Millisecond)
	f.comments = append(f.comments, *comment)
	return nil
}

func (f *fakeCommentRepo) FindByBlogID(_ context.Context, blogID int64) ([]models.CommentView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	views := []models.CommentView{}
	for _, c := range f.comments {
		if c.BlogID == blogID {
			first, last := f.users.names(c.UserID)
			views = append(views, models.CommentView{Comment: c, FirstName: first, LastName: last})
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.Before(views[j].CreatedAt) })
	return views, nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}
