package repository

import (
	"regexp"
	"strings"
	"time"

	"github.com/nimburion/blogapi/pkg/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogQuery describes a blog listing: an owner and category, an optional
// keyword, an optional createdAt range (inclusive on both ends) and a page.
type BlogQuery struct {
	User       primitive.ObjectID
	Category   primitive.ObjectID
	Keywords   string
	Start      *time.Time
	End        *time.Time
	Pagination Pagination
}

// Filter renders the query as a MongoDB filter document.
// The keyword is matched as a literal, case-insensitive substring of title or
// description, surrounding whitespace included.
func (q BlogQuery) Filter() bson.M {
	filter := bson.M{
		"user":     q.User,
		"category": q.Category,
	}

	if q.Keywords != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Keywords), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}

	if q.Start != nil || q.End != nil {
		createdAt := bson.M{}
		if q.Start != nil {
			createdAt["$gte"] = *q.Start
		}
		if q.End != nil {
			createdAt["$lte"] = *q.End
		}
		filter["createdAt"] = createdAt
	}

	return filter
}

// FindOptions sorts by createdAt ascending with _id as tie-breaker and applies the page window.
func (q BlogQuery) FindOptions() *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	if offset := q.Pagination.Offset(); offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit := q.Pagination.Limit(); limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// Matches reports whether blog satisfies the filter part of the query.
func (q BlogQuery) Matches(blog model.Blog) bool {
	if blog.User != q.User || blog.Category != q.Category {
		return false
	}
	if keywords := strings.ToLower(q.Keywords); keywords != "" {
		if !strings.Contains(strings.ToLower(blog.Title), keywords) &&
			!strings.Contains(strings.ToLower(blog.Description), keywords) {
			return false
		}
	}
	if q.Start != nil && blog.CreatedAt.Before(*q.Start) {
		return false
	}
	if q.End != nil && blog.CreatedAt.After(*q.End) {
		return false
	}
	return true
}

// Less orders blogs the way FindOptions sorts them.
func Less(a, b model.Blog) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.Hex() < b.ID.Hex()
}
