// Package mongo implements the repositories on top of the MongoDB gateway.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimburion/blogapi/pkg/model"
	"github.com/nimburion/blogapi/pkg/observability/tracing"
	"github.com/nimburion/blogapi/pkg/repository"
	"github.com/nimburion/blogapi/pkg/store/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Runner executes one operation against a collection. *mongodb.Gateway satisfies it.
type Runner interface {
	Run(ctx context.Context, collection string, op tracing.SpanOperation, fn func(ctx context.Context, coll *mongo.Collection) error) error
}

var _ Runner = (*mongodb.Gateway)(nil)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// translate maps driver sentinels onto repository errors.
func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func afterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// Users implements repository.UserRepository.
type Users struct{ runner Runner }

// NewUsers creates a user repository.
func NewUsers(runner Runner) *Users { return &Users{runner: runner} }

func (r *Users) List(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := r.runner.Run(ctx, model.UsersCollection, tracing.SpanOperationFind, func(ctx context.Context, coll *mongo.Collection) error {
		cursor, err := coll.Find(ctx, bson.M{})
		if err != nil {
			return err
		}
		return cursor.All(ctx, &users)
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *Users) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := r.runner.Run(ctx, model.UsersCollection, tracing.SpanOperationFind, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Users) Create(ctx context.Context, user *model.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	model.Touch(&user.CreatedAt, &user.UpdatedAt, now())
	return r.runner.Run(ctx, model.UsersCollection, tracing.SpanOperationInsert, func(ctx context.Context, coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, user)
		return err
	})
}

func (r *Users) UpdateUsername(ctx context.Context, id primitive.ObjectID, username string) (*model.User, error) {
	var user model.User
	update := bson.M{"$set": bson.M{"username": username, "updatedAt": now()}}
	err := r.runner.Run(ctx, model.UsersCollection, tracing.SpanOperationUpdate, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, afterUpdate()).Decode(&user)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	var deleted int64
	err := r.runner.Run(ctx, model.UsersCollection, tracing.SpanOperationDelete, func(ctx context.Context, coll *mongo.Collection) error {
		res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Categories implements repository.CategoryRepository.
type Categories struct{ runner Runner }

// NewCategories creates a category repository.
func NewCategories(runner Runner) *Categories { return &Categories{runner: runner} }

func (r *Categories) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.runner.Run(ctx, model.CategoriesCollection, tracing.SpanOperationFind, func(ctx context.Context, coll *mongo.Collection) error {
		cursor, err := coll.Find(ctx, bson.M{"user": userID})
		if err != nil {
			return err
		}
		return cursor.All(ctx, &categories)
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *Categories) findOne(ctx context.Context, filter bson.M) (*model.Category, error) {
	var category model.Category
	err := r.runner.Run(ctx, model.CategoriesCollection, tracing.SpanOperationFind, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOne(ctx, filter).Decode(&category)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *Categories) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *Categories) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*model.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user": userID})
}

func (r *Categories) Create(ctx context.Context, category *model.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	model.Touch(&category.CreatedAt, &category.UpdatedAt, now())
	return r.runner.Run(ctx, model.CategoriesCollection, tracing.SpanOperationInsert, func(ctx context.Context, coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, category)
		return err
	})
}

func (r *Categories) UpdateTitle(ctx context.Context, id, userID primitive.ObjectID, title string) (*model.Category, error) {
	var category model.Category
	update := bson.M{"$set": bson.M{"title": title, "updatedAt": now()}}
	err := r.runner.Run(ctx, model.CategoriesCollection, tracing.SpanOperationUpdate, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": userID}, update, afterUpdate()).Decode(&category)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *Categories) Delete(ctx context.Context, id, userID primitive.ObjectID) (*model.Category, error) {
	var category model.Category
	err := r.runner.Run(ctx, model.CategoriesCollection, tracing.SpanOperationDelete, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOneAndDelete(ctx, bson.M{"_id": id, "user": userID}).Decode(&category)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

// Blogs implements repository.BlogRepository.
type Blogs struct{ runner Runner }

// NewBlogs creates a blog repository.
func NewBlogs(runner Runner) *Blogs { return &Blogs{runner: runner} }

func (r *Blogs) Find(ctx context.Context, query repository.BlogQuery) ([]model.Blog, error) {
	blogs := []model.Blog{}
	err := r.runner.Run(ctx, model.BlogsCollection, tracing.SpanOperationFind, func(ctx context.Context, coll *mongo.Collection) error {
		cursor, err := coll.Find(ctx, query.Filter(), query.FindOptions())
		if err != nil {
			return err
		}
		return cursor.All(ctx, &blogs)
	})
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	return blogs, nil
}

func (r *Blogs) findOne(ctx context.Context, filter bson.M) (*model.Blog, error) {
	var blog model.Blog
	err := r.runner.Run(ctx, model.BlogsCollection, tracing.SpanOperationFind, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOne(ctx, filter).Decode(&blog)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (r *Blogs) FindOne(ctx context.Context, id, userID, categoryID primitive.ObjectID) (*model.Blog, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user": userID, "category": categoryID})
}

func (r *Blogs) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*model.Blog, error) {
	return r.findOne(ctx, bson.M{"_id": id, "user": userID})
}

func (r *Blogs) Create(ctx context.Context, blog *model.Blog) error {
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	model.Touch(&blog.CreatedAt, &blog.UpdatedAt, now())
	return r.runner.Run(ctx, model.BlogsCollection, tracing.SpanOperationInsert, func(ctx context.Context, coll *mongo.Collection) error {
		_, err := coll.InsertOne(ctx, blog)
		return err
	})
}

func (r *Blogs) Update(ctx context.Context, id, userID primitive.ObjectID, patch repository.BlogPatch) (*model.Blog, error) {
	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}

	var blog model.Blog
	err := r.runner.Run(ctx, model.BlogsCollection, tracing.SpanOperationUpdate, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOneAndUpdate(ctx, bson.M{"_id": id, "user": userID}, bson.M{"$set": set}, afterUpdate()).Decode(&blog)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

func (r *Blogs) Delete(ctx context.Context, id, userID primitive.ObjectID) (*model.Blog, error) {
	var blog model.Blog
	err := r.runner.Run(ctx, model.BlogsCollection, tracing.SpanOperationDelete, func(ctx context.Context, coll *mongo.Collection) error {
		return coll.FindOneAndDelete(ctx, bson.M{"_id": id, "user": userID}).Decode(&blog)
	})
	if err != nil {
		return nil, translate(err)
	}
	return &blog, nil
}

var (
	_ repository.UserRepository     = (*Users)(nil)
	_ repository.CategoryRepository = (*Categories)(nil)
	_ repository.BlogRepository     = (*Blogs)(nil)
)
