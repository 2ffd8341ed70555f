package repo

import (
	"context"

	"github.com/scohe001/foreign-keys/example/model"
	"github.com/scohe001/foreign-keys/example/query"
	"github.com/scohe001/foreign-keys/orm"
)

// ProteinRepository wraps generated query functions for proteins.
type ProteinRepository struct {
	db orm.Querier
}

func NewProteinRepository(db orm.Querier) *ProteinRepository {
	return &ProteinRepository{db: db}
}

func (r *ProteinRepository) Create(ctx context.Context, p *model.Protein) error {
	return query.Proteins(r.db).Create(ctx, p)
}

func (r *ProteinRepository) FindByID(ctx context.Context, id int) (model.Protein, error) {
	return query.Proteins(r.db).Where("id = ?", id).First(ctx)
}

func (r *ProteinRepository) FindAll(ctx context.Context) ([]model.Protein, error) {
	return query.Proteins(r.db).OrderBy("id").All(ctx)
}

// Delete removes a protein. Meals that referenced it keep existing with
// their protein_id cleared.
func (r *ProteinRepository) Delete(ctx context.Context, id int) error {
	return query.Proteins(r.db).CheckForeignKeys().Where("id = ?", id).Delete(ctx)
}
