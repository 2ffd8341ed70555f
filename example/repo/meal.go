package repo

import (
	"context"

	"github.com/scohe001/foreign-keys/example/model"
	"github.com/scohe001/foreign-keys/example/query"
	"github.com/scohe001/foreign-keys/orm"
	"github.com/scohe001/foreign-keys/scope"
)

// MealRepository wraps generated query functions for meals.
// Writes validate foreign keys so an orphaned meal is rejected before
// it ever reaches the database.
type MealRepository struct {
	db orm.Querier
}

func NewMealRepository(db orm.Querier) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Create(ctx context.Context, m *model.Meal) error {
	return query.Meals(r.db).CheckForeignKeys().Create(ctx, m)
}

func (r *MealRepository) FindByID(ctx context.Context, id int) (model.Meal, error) {
	return query.Meals(r.db).Where("id = ?", id).First(ctx)
}

// FindByIDFull loads a meal with its user and protein in a single pass.
func (r *MealRepository) FindByIDFull(ctx context.Context, id int) (model.Meal, error) {
	return query.Meals(r.db).
		Where("id = ?", id).
		Preload("User").
		Preload("Protein").
		First(ctx)
}

func (r *MealRepository) FindByUser(ctx context.Context, userID string) ([]model.Meal, error) {
	return query.Meals(r.db).Where("user_id = ?", userID).OrderBy("id").All(ctx)
}

func (r *MealRepository) FindAll(ctx context.Context, scopes ...scope.Scope) ([]model.Meal, error) {
	return query.Meals(r.db).Scopes(scopes...).OrderBy("id").All(ctx)
}

func (r *MealRepository) Update(ctx context.Context, m *model.Meal) error {
	return query.Meals(r.db).CheckForeignKeys().Update(ctx, m)
}

func (r *MealRepository) Delete(ctx context.Context, id int) error {
	return query.Meals(r.db).Where("id = ?", id).Delete(ctx)
}
