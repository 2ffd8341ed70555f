package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/scohe001/foreign-keys/example/model"
	"github.com/scohe001/foreign-keys/example/query"
	"github.com/scohe001/foreign-keys/orm"
	"github.com/scohe001/foreign-keys/scope"
)

// UserRepository wraps generated query functions with a repository pattern.
type UserRepository struct {
	db orm.Querier
}

func NewUserRepository(db orm.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Create assigns a fresh UUID before inserting. String primary keys are
// never auto-generated by the database.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return query.Users(r.db).Create(ctx, u)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return query.Users(r.db).Where("id = ?", id).First(ctx)
}

// FindByIDWithMeals loads a user together with every meal referencing them.
func (r *UserRepository) FindByIDWithMeals(ctx context.Context, id string) (model.User, error) {
	return query.Users(r.db).Where("id = ?", id).Preload("Meals").First(ctx)
}

func (r *UserRepository) FindAll(ctx context.Context, scopes ...scope.Scope) ([]model.User, error) {
	return query.Users(r.db).Scopes(scopes...).OrderBy("id").All(ctx)
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	return query.Users(r.db).Update(ctx, u)
}

// Delete removes a user and cascades to their meals.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return query.Users(r.db).CheckForeignKeys().Where("id = ?", id).Delete(ctx)
}
