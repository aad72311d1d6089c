package category

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/anngon/internal/platform/database/schema"
	"github.com/taibuivan/anngon/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListCategories(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC, %s ASC`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreCategory.IconURL, schema.CoreCategory.SortOrder,
		schema.CoreCategory.Table, schema.CoreCategory.SortOrder, schema.CoreCategory.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IconURL, &c.SortOrder); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (repository *PostgresRepository) GetCategoryByID(context context.Context, id int) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreCategory.IconURL, schema.CoreCategory.SortOrder,
		schema.CoreCategory.Table, schema.CoreCategory.ID)

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(&c.ID, &c.Name, &c.Slug, &c.IconURL, &c.SortOrder)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_id")
	}
	return c, nil
}

func (repository *PostgresRepository) GetCategoryBySlug(context context.Context, slug string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
		schema.CoreCategory.IconURL, schema.CoreCategory.SortOrder,
		schema.CoreCategory.Table, schema.CoreCategory.Slug)

	c := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.IconURL, &c.SortOrder)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}
	return c, nil
}

func (repository *PostgresRepository) CreateCategory(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING %s
	`,
		schema.CoreCategory.Table,
		schema.CoreCategory.Name, schema.CoreCategory.Slug, schema.CoreCategory.IconURL,
		schema.CoreCategory.SortOrder, schema.CoreCategory.CreatedAt,
		schema.CoreCategory.ID,
	)

	err := repository.db.QueryRow(context, query, c.Name, c.Slug, c.IconURL, c.SortOrder).Scan(&c.ID)
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) UpdateCategory(context context.Context, c *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		schema.CoreCategory.Table,
		schema.CoreCategory.Name, schema.CoreCategory.Slug, schema.CoreCategory.IconURL,
		schema.CoreCategory.SortOrder,
		schema.CoreCategory.ID,
	)

	cmd, err := repository.db.Exec(context, query, c.ID, c.Name, c.Slug, c.IconURL, c.SortOrder)
	if err != nil {
		return dberr.Wrap(err, "update_category")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteCategory(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreCategory.Table, schema.CoreCategory.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
