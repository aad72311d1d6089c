package food

import (
	"context"
	"fmt"
	"strconv"

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

// foodSelectColumns renders the shared projection for menu lookups.
func foodSelectColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CoreFood.ID, schema.CoreFood.StallID, schema.CoreFood.CategoryID,
		schema.CoreFood.Name, schema.CoreFood.Slug, schema.CoreFood.Description,
		schema.CoreFood.Price, schema.CoreFood.ImageURL, schema.CoreFood.IsAvailable,
		schema.CoreFood.RatingAvg, schema.CoreFood.RatingCount, schema.CoreFood.SoldCount,
		schema.CoreFood.CreatedAt, schema.CoreFood.UpdatedAt,
	)
}

func scanFood(scan func(dest ...any) error) (*Food, error) {
	f := &Food{}
	err := scan(
		&f.ID, &f.StallID, &f.CategoryID, &f.Name, &f.Slug, &f.Description,
		&f.Price, &f.ImageURL, &f.IsAvailable,
		&f.RatingAvg, &f.RatingCount, &f.SoldCount,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (repository *PostgresRepository) ListFoods(context context.Context, f Filter, limit, offset int) ([]*Food, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
	`, foodSelectColumns(), schema.CoreFood.Table, schema.CoreFood.DeletedAt)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s IS NULL`, schema.CoreFood.Table, schema.CoreFood.DeletedAt)

	args := []any{}
	countArgs := []any{}

	appendClause := func(clause string, value any) {
		query += clause
		countQuery += clause
		if value != nil {
			args = append(args, value)
			countArgs = append(countArgs, value)
		}
	}

	if f.Query != "" {
		appendClause(fmt.Sprintf(" AND name ILIKE $%d", len(args)+1), "%"+f.Query+"%")
	}
	if f.StallID != "" {
		appendClause(fmt.Sprintf(" AND %s = $%d", schema.CoreFood.StallID, len(args)+1), f.StallID)
	}
	if f.CategoryID > 0 {
		appendClause(fmt.Sprintf(" AND %s = $%d", schema.CoreFood.CategoryID, len(args)+1), f.CategoryID)
	}
	if f.MinPrice > 0 {
		appendClause(fmt.Sprintf(" AND %s >= $%d", schema.CoreFood.Price, len(args)+1), f.MinPrice)
	}
	if f.MaxPrice > 0 {
		appendClause(fmt.Sprintf(" AND %s <= $%d", schema.CoreFood.Price, len(args)+1), f.MaxPrice)
	}
	if f.AvailableOnly {
		appendClause(fmt.Sprintf(" AND %s = TRUE", schema.CoreFood.IsAvailable), nil)
	}

	query += fmt.Sprintf(" ORDER BY %s DESC, %s DESC LIMIT $", schema.CoreFood.SoldCount, schema.CoreFood.RatingAvg) +
		strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_foods")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_foods")
	}
	defer rows.Close()

	var foods []*Food
	for rows.Next() {
		item, err := scanFood(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_food")
		}
		foods = append(foods, item)
	}

	return foods, total, nil
}

func (repository *PostgresRepository) GetFood(context context.Context, id string) (*Food, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, foodSelectColumns(), schema.CoreFood.Table, schema.CoreFood.ID, schema.CoreFood.DeletedAt)

	f, err := scanFood(repository.db.QueryRow(context, query, id).Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "get_food")
	}
	return f, nil
}

func (repository *PostgresRepository) CreateFood(context context.Context, f *Food) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CoreFood.Table,
		schema.CoreFood.ID, schema.CoreFood.StallID, schema.CoreFood.CategoryID,
		schema.CoreFood.Name, schema.CoreFood.Slug, schema.CoreFood.Description,
		schema.CoreFood.Price, schema.CoreFood.ImageURL, schema.CoreFood.IsAvailable,
		schema.CoreFood.CreatedAt, schema.CoreFood.UpdatedAt,
		schema.CoreFood.CreatedAt, schema.CoreFood.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		f.ID, f.StallID, f.CategoryID, f.Name, f.Slug, f.Description,
		f.Price, f.ImageURL, f.IsAvailable,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	return dberr.Wrap(err, "create_food")
}

func (repository *PostgresRepository) UpdateFood(context context.Context, f *Food) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.CoreFood.Table,
		schema.CoreFood.CategoryID, schema.CoreFood.Name, schema.CoreFood.Slug,
		schema.CoreFood.Description, schema.CoreFood.Price, schema.CoreFood.ImageURL,
		schema.CoreFood.UpdatedAt,
		schema.CoreFood.ID, schema.CoreFood.DeletedAt,
		schema.CoreFood.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		f.ID, f.CategoryID, f.Name, f.Slug, f.Description, f.Price, f.ImageURL,
	).Scan(&f.UpdatedAt)
	return dberr.Wrap(err, "update_food")
}

func (repository *PostgresRepository) SetAvailable(context context.Context, id string, available bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreFood.Table, schema.CoreFood.IsAvailable, schema.CoreFood.UpdatedAt,
		schema.CoreFood.ID, schema.CoreFood.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, available)
	if err != nil {
		return dberr.Wrap(err, "set_food_available")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteFood(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreFood.Table, schema.CoreFood.DeletedAt, schema.CoreFood.ID, schema.CoreFood.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_food")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
