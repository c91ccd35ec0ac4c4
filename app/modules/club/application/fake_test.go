package clubservice

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/integrity"
	clubdb "github.com/Black-And-White-Club/club-review/app/modules/club/infrastructure/repositories"
)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	trace []string

	GetByCodeFunc    func(ctx context.Context, db bun.IDB, code string) (*clubdb.Club, error)
	ListFunc         func(ctx context.Context, db bun.IDB) ([]*clubdb.Club, error)
	SearchByNameFunc func(ctx context.Context, db bun.IDB, query string) ([]*clubdb.Club, error)
	ListByTagFunc    func(ctx context.Context, db bun.IDB, tag string) ([]*clubdb.Club, error)
	TagExistsFunc    func(ctx context.Context, db bun.IDB, tag string) (bool, error)
	InsertFunc       func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	UpdateFunc       func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	DeleteFunc       func(ctx context.Context, db bun.IDB, code string) error
	FavoritedByFunc  func(ctx context.Context, db bun.IDB, code string) ([]string, error)
}

func NewFakeClubRepo() *FakeClubRepo {
	return &FakeClubRepo{
		trace: []string{},
	}
}

func (f *FakeClubRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeClubRepo) GetByCode(ctx context.Context, db bun.IDB, code string) (*clubdb.Club, error) {
	f.record("GetByCode")
	if f.GetByCodeFunc != nil {
		return f.GetByCodeFunc(ctx, db, code)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) List(ctx context.Context, db bun.IDB) ([]*clubdb.Club, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeClubRepo) SearchByName(ctx context.Context, db bun.IDB, query string) ([]*clubdb.Club, error) {
	f.record("SearchByName")
	if f.SearchByNameFunc != nil {
		return f.SearchByNameFunc(ctx, db, query)
	}
	return nil, nil
}

func (f *FakeClubRepo) ListByTag(ctx context.Context, db bun.IDB, tag string) ([]*clubdb.Club, error) {
	f.record("ListByTag")
	if f.ListByTagFunc != nil {
		return f.ListByTagFunc(ctx, db, tag)
	}
	return nil, nil
}

func (f *FakeClubRepo) TagExists(ctx context.Context, db bun.IDB, tag string) (bool, error) {
	f.record("TagExists")
	if f.TagExistsFunc != nil {
		return f.TagExistsFunc(ctx, db, tag)
	}
	return false, nil
}

func (f *FakeClubRepo) Insert(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, club)
	}
	return nil
}

func (f *FakeClubRepo) Update(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, club)
	}
	return nil
}

func (f *FakeClubRepo) Delete(ctx context.Context, db bun.IDB, code string) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, code)
	}
	return nil
}

func (f *FakeClubRepo) FavoritedBy(ctx context.Context, db bun.IDB, code string) ([]string, error) {
	f.record("FavoritedBy")
	if f.FavoritedByFunc != nil {
		return f.FavoritedByFunc(ctx, db, code)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeClubRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ clubdb.Repository = (*FakeClubRepo)(nil)

// ------------------------
// Fake Registry
// ------------------------

type FakeRegistry struct {
	integrity.Registry
	ClubExistsFunc func(ctx context.Context, code string) (bool, error)
}

func (f *FakeRegistry) ClubExists(ctx context.Context, code string) (bool, error) {
	if f.ClubExistsFunc != nil {
		return f.ClubExistsFunc(ctx, code)
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
	Err    error
}

func (f *FakePublisher) Publish(_ context.Context, topic string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Topics = append(f.Topics, topic)
	return f.Err
}

func (f *FakePublisher) Close() error { return nil }
