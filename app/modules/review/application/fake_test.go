package reviewservice

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/integrity"
	reviewdb "github.com/Black-And-White-Club/club-review/app/modules/review/infrastructure/repositories"
)

// ------------------------
// Fake Review Repo
// ------------------------

type FakeReviewRepo struct {
	trace []string

	GetByIDFunc          func(ctx context.Context, db bun.IDB, id int64) (*reviewdb.Review, error)
	GetByUserAndClubFunc func(ctx context.Context, db bun.IDB, userID int64, code string) (*reviewdb.Review, error)
	PageFunc             func(ctx context.Context, db bun.IDB, limit, offset int) ([]*reviewdb.Review, int, error)
	ListByClubFunc       func(ctx context.Context, db bun.IDB, code string, f reviewdb.ClubFilter) ([]*reviewdb.Review, error)
	ListByUserFunc       func(ctx context.Context, db bun.IDB, userID int64) ([]*reviewdb.Review, error)
	RatingCountsFunc     func(ctx context.Context, db bun.IDB, code string) (map[int]int, error)
	ClubNameFunc         func(ctx context.Context, db bun.IDB, code string) (string, error)
	InsertFunc           func(ctx context.Context, db bun.IDB, review *reviewdb.Review) error
	UpdateFunc           func(ctx context.Context, db bun.IDB, review *reviewdb.Review) error
	DeleteFunc           func(ctx context.Context, db bun.IDB, id int64) error
}

func NewFakeReviewRepo() *FakeReviewRepo {
	return &FakeReviewRepo{
		trace: []string{},
	}
}

func (f *FakeReviewRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeReviewRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*reviewdb.Review, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, reviewdb.ErrNotFound
}

func (f *FakeReviewRepo) GetByUserAndClub(ctx context.Context, db bun.IDB, userID int64, code string) (*reviewdb.Review, error) {
	f.record("GetByUserAndClub")
	if f.GetByUserAndClubFunc != nil {
		return f.GetByUserAndClubFunc(ctx, db, userID, code)
	}
	return nil, reviewdb.ErrNotFound
}

func (f *FakeReviewRepo) Page(ctx context.Context, db bun.IDB, limit, offset int) ([]*reviewdb.Review, int, error) {
	f.record("Page")
	if f.PageFunc != nil {
		return f.PageFunc(ctx, db, limit, offset)
	}
	return nil, 0, nil
}

func (f *FakeReviewRepo) ListByClub(ctx context.Context, db bun.IDB, code string, filter reviewdb.ClubFilter) ([]*reviewdb.Review, error) {
	f.record("ListByClub")
	if f.ListByClubFunc != nil {
		return f.ListByClubFunc(ctx, db, code, filter)
	}
	return nil, nil
}

func (f *FakeReviewRepo) ListByUser(ctx context.Context, db bun.IDB, userID int64) ([]*reviewdb.Review, error) {
	f.record("ListByUser")
	if f.ListByUserFunc != nil {
		return f.ListByUserFunc(ctx, db, userID)
	}
	return nil, nil
}

func (f *FakeReviewRepo) RatingCounts(ctx context.Context, db bun.IDB, code string) (map[int]int, error) {
	f.record("RatingCounts")
	if f.RatingCountsFunc != nil {
		return f.RatingCountsFunc(ctx, db, code)
	}
	return map[int]int{}, nil
}

func (f *FakeReviewRepo) ClubName(ctx context.Context, db bun.IDB, code string) (string, error) {
	f.record("ClubName")
	if f.ClubNameFunc != nil {
		return f.ClubNameFunc(ctx, db, code)
	}
	return "", reviewdb.ErrClubNotFound
}

func (f *FakeReviewRepo) Insert(ctx context.Context, db bun.IDB, review *reviewdb.Review) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, review)
	}
	return nil
}

func (f *FakeReviewRepo) Update(ctx context.Context, db bun.IDB, review *reviewdb.Review) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, review)
	}
	return nil
}

func (f *FakeReviewRepo) Delete(ctx context.Context, db bun.IDB, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeReviewRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ reviewdb.Repository = (*FakeReviewRepo)(nil)

// ------------------------
// Fake Registry
// ------------------------

type FakeRegistry struct {
	integrity.Registry
	UserExistsFunc   func(ctx context.Context, id int64) (bool, error)
	ClubExistsFunc   func(ctx context.Context, code string) (bool, error)
	ReviewExistsFunc func(ctx context.Context, userID int64, code string) (bool, error)
}

func (f *FakeRegistry) UserExists(ctx context.Context, id int64) (bool, error) {
	if f.UserExistsFunc != nil {
		return f.UserExistsFunc(ctx, id)
	}
	return true, nil
}

func (f *FakeRegistry) ClubExists(ctx context.Context, code string) (bool, error) {
	if f.ClubExistsFunc != nil {
		return f.ClubExistsFunc(ctx, code)
	}
	return true, nil
}

func (f *FakeRegistry) ReviewExists(ctx context.Context, userID int64, code string) (bool, error) {
	if f.ReviewExistsFunc != nil {
		return f.ReviewExistsFunc(ctx, userID, code)
	}
	return false, nil
}

func (f *FakeRegistry) Binder() integrity.Binder {
	return func(bun.IDB) integrity.Registry { return f }
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu     sync.Mutex
	Topics []string
}

func (f *FakePublisher) Publish(_ context.Context, topic string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Topics = append(f.Topics, topic)
	return nil
}

func (f *FakePublisher) Close() error { return nil }
