package userservice

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/club-review/app/integrity"
	userdb "github.com/Black-And-White-Club/club-review/app/modules/user/infrastructure/repositories"
)

// ------------------------
// Fake User Repo
// ------------------------

type FakeUserRepo struct {
	trace []string

	GetByIDFunc          func(ctx context.Context, db bun.IDB, id int64) (*userdb.User, error)
	ListFunc             func(ctx context.Context, db bun.IDB) ([]*userdb.User, error)
	InsertFunc           func(ctx context.Context, db bun.IDB, user *userdb.User) error
	UpdateFunc           func(ctx context.Context, db bun.IDB, user *userdb.User) error
	DeleteFunc           func(ctx context.Context, db bun.IDB, id int64) error
	AddFavoritesFunc     func(ctx context.Context, db bun.IDB, userID int64, codes []string) ([]string, error)
	ReplaceFavoritesFunc func(ctx context.Context, db bun.IDB, userID int64, codes []string) error
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		trace: []string{},
	}
}

func (f *FakeUserRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeUserRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*userdb.User, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, userdb.ErrNotFound
}

func (f *FakeUserRepo) List(ctx context.Context, db bun.IDB) ([]*userdb.User, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeUserRepo) Insert(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, user)
	}
	return nil
}

func (f *FakeUserRepo) Update(ctx context.Context, db bun.IDB, user *userdb.User) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, user)
	}
	return nil
}

func (f *FakeUserRepo) Delete(ctx context.Context, db bun.IDB, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

func (f *FakeUserRepo) AddFavorites(ctx context.Context, db bun.IDB, userID int64, codes []string) ([]string, error) {
	f.record("AddFavorites")
	if f.AddFavoritesFunc != nil {
		return f.AddFavoritesFunc(ctx, db, userID, codes)
	}
	return codes, nil
}

func (f *FakeUserRepo) ReplaceFavorites(ctx context.Context, db bun.IDB, userID int64, codes []string) error {
	f.record("ReplaceFavorites")
	if f.ReplaceFavoritesFunc != nil {
		return f.ReplaceFavoritesFunc(ctx, db, userID, codes)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeUserRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ userdb.Repository = (*FakeUserRepo)(nil)

// ------------------------
// Fake Registry
// ------------------------

type FakeRegistry struct {
	integrity.Registry
	ClubExistsFunc    func(ctx context.Context, code string) (bool, error)
	UsernameTakenFunc func(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailTakenFunc    func(ctx context.Context, email string, excludeID int64) (bool, error)
}

func (f *FakeRegistry) ClubExists(ctx context.Context, code string) (bool, error) {
	if f.ClubExistsFunc != nil {
		return f.ClubExistsFunc(ctx, code)
	}
	return true, nil
}

func (f *FakeRegistry) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	if f.UsernameTakenFunc != nil {
		return f.UsernameTakenFunc(ctx, username, excludeID)
	}
	return false, nil
}

func (f *FakeRegistry) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	if f.EmailTakenFunc != nil {
		return f.EmailTakenFunc(ctx, email, excludeID)
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
