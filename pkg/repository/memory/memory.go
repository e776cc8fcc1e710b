// Package memory keeps users, categories and blogs in process memory.
// It backs database.type=memory and the handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nimburion/blogapi/pkg/model"
	"github.com/nimburion/blogapi/pkg/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds the three collections behind one lock.
type Store struct {
	mu         sync.RWMutex
	users      map[primitive.ObjectID]model.User
	categories map[primitive.ObjectID]model.Category
	blogs      map[primitive.ObjectID]model.Blog
	now        func() time.Time
}

// Option customizes a Store.
type Option func(*Store)

// WithClock sets the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		users:      map[primitive.ObjectID]model.User{},
		categories: map[primitive.ObjectID]model.Category{},
		blogs:      map[primitive.ObjectID]model.Blog{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users returns the user repository view of the store.
func (s *Store) Users() *Users { return &Users{s: s} }

// Categories returns the category repository view of the store.
func (s *Store) Categories() *Categories { return &Categories{s: s} }

// Blogs returns the blog repository view of the store.
func (s *Store) Blogs() *Blogs { return &Blogs{s: s} }

// Users implements repository.UserRepository.
type Users struct{ s *Store }

func (r *Users) List(_ context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *Users) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *Users) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	model.Touch(&user.CreatedAt, &user.UpdatedAt, r.s.now())
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) UpdateUsername(_ context.Context, id primitive.ObjectID, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Username = username
	model.Touch(&u.CreatedAt, &u.UpdatedAt, r.s.now())
	r.s.users[id] = u
	return &u, nil
}

func (r *Users) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// Categories implements repository.CategoryRepository.
type Categories struct{ s *Store }

func (r *Categories) ListByUser(_ context.Context, userID primitive.ObjectID) ([]model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Category{}
	for _, c := range r.s.categories {
		if c.User == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (r *Categories) FindByID(_ context.Context, id primitive.ObjectID) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *Categories) FindOwned(_ context.Context, id, userID primitive.ObjectID) (*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok || c.User != userID {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *Categories) Create(_ context.Context, category *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	model.Touch(&category.CreatedAt, &category.UpdatedAt, r.s.now())
	r.s.categories[category.ID] = *category
	return nil
}

func (r *Categories) UpdateTitle(_ context.Context, id, userID primitive.ObjectID, title string) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.User != userID {
		return nil, repository.ErrNotFound
	}
	c.Title = title
	model.Touch(&c.CreatedAt, &c.UpdatedAt, r.s.now())
	r.s.categories[id] = c
	return &c, nil
}

func (r *Categories) Delete(_ context.Context, id, userID primitive.ObjectID) (*model.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok || c.User != userID {
		return nil, repository.ErrNotFound
	}
	delete(r.s.categories, id)
	return &c, nil
}

// Blogs implements repository.BlogRepository.
type Blogs struct{ s *Store }

func (r *Blogs) Find(_ context.Context, query repository.BlogQuery) ([]model.Blog, error) {
	r.s.mu.RLock()
	matched := []model.Blog{}
	for _, b := range r.s.blogs {
		if query.Matches(b) {
			matched = append(matched, b)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return repository.Less(matched[i], matched[j]) })

	offset := query.Pagination.Offset()
	if offset < 0 || offset >= len(matched) {
		return []model.Blog{}, nil
	}
	matched = matched[offset:]
	if limit := query.Pagination.Limit(); limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *Blogs) FindOne(_ context.Context, id, userID, categoryID primitive.ObjectID) (*model.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.blogs[id]
	if !ok || b.User != userID || b.Category != categoryID {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *Blogs) FindOwned(_ context.Context, id, userID primitive.ObjectID) (*model.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.blogs[id]
	if !ok || b.User != userID {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *Blogs) Create(_ context.Context, blog *model.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	model.Touch(&blog.CreatedAt, &blog.UpdatedAt, r.s.now())
	r.s.blogs[blog.ID] = *blog
	return nil
}

func (r *Blogs) Update(_ context.Context, id, userID primitive.ObjectID, patch repository.BlogPatch) (*model.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blogs[id]
	if !ok || b.User != userID {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	model.Touch(&b.CreatedAt, &b.UpdatedAt, r.s.now())
	r.s.blogs[id] = b
	return &b, nil
}

func (r *Blogs) Delete(_ context.Context, id, userID primitive.ObjectID) (*model.Blog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blogs[id]
	if !ok || b.User != userID {
		return nil, repository.ErrNotFound
	}
	delete(r.s.blogs, id)
	return &b, nil
}

var (
	_ repository.UserRepository     = (*Users)(nil)
	_ repository.CategoryRepository = (*Categories)(nil)
	_ repository.BlogRepository     = (*Blogs)(nil)
)
