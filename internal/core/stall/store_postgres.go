package stall

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

// stallSelectColumns renders the shared projection for stall lookups.
func stallSelectColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CoreStall.ID, schema.CoreStall.OwnerID, schema.CoreStall.Name, schema.CoreStall.Slug,
		schema.CoreStall.Description, schema.CoreStall.Address, schema.CoreStall.Phone,
		schema.CoreStall.AvatarURL, schema.CoreStall.CoverURL, schema.CoreStall.IsOpen,
		schema.CoreStall.RatingAvg, schema.CoreStall.RatingCount,
		schema.CoreStall.CreatedAt, schema.CoreStall.UpdatedAt,
	)
}

func scanStall(scan func(dest ...any) error) (*Stall, error) {
	s := &Stall{}
	err := scan(
		&s.ID, &s.OwnerID, &s.Name, &s.Slug, &s.Description, &s.Address, &s.Phone,
		&s.AvatarURL, &s.CoverURL, &s.IsOpen, &s.RatingAvg, &s.RatingCount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (repository *PostgresRepository) ListStalls(context context.Context, f Filter, limit, offset int) ([]*Stall, int, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
	`, stallSelectColumns(), schema.CoreStall.Table, schema.CoreStall.DeletedAt)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s IS NULL`, schema.CoreStall.Table, schema.CoreStall.DeletedAt)

	args := []any{}
	countArgs := []any{}

	if f.Query != "" {
		searchTerm := "%" + f.Query + "%"
		clause := fmt.Sprintf(" AND (name ILIKE $%d OR address ILIKE $%d)", len(args)+1, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, searchTerm)
		countArgs = append(countArgs, searchTerm)
	}

	if f.OwnerID != "" {
		clause := fmt.Sprintf(" AND %s = $%d", schema.CoreStall.OwnerID, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.OwnerID)
		countArgs = append(countArgs, f.OwnerID)
	}

	if f.OpenOnly {
		clause := fmt.Sprintf(" AND %s = TRUE", schema.CoreStall.IsOpen)
		query += clause
		countQuery += clause
	}

	query += fmt.Sprintf(" ORDER BY %s DESC, %s DESC LIMIT $", schema.CoreStall.RatingAvg, schema.CoreStall.RatingCount) +
		strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_stalls")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_stalls")
	}
	defer rows.Close()

	var stalls []*Stall
	for rows.Next() {
		s, err := scanStall(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_stall")
		}
		stalls = append(stalls, s)
	}

	return stalls, total, nil
}

func (repository *PostgresRepository) GetStall(context context.Context, id string) (*Stall, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, stallSelectColumns(), schema.CoreStall.Table, schema.CoreStall.ID, schema.CoreStall.DeletedAt)

	s, err := scanStall(repository.db.QueryRow(context, query, id).Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "get_stall")
	}
	return s, nil
}

func (repository *PostgresRepository) GetStallBySlug(context context.Context, slug string) (*Stall, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`, stallSelectColumns(), schema.CoreStall.Table, schema.CoreStall.Slug, schema.CoreStall.DeletedAt)

	s, err := scanStall(repository.db.QueryRow(context, query, slug).Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "get_stall_by_slug")
	}
	return s, nil
}

func (repository *PostgresRepository) CreateStall(context context.Context, s *Stall) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.CoreStall.Table,
		schema.CoreStall.ID, schema.CoreStall.OwnerID, schema.CoreStall.Name, schema.CoreStall.Slug,
		schema.CoreStall.Description, schema.CoreStall.Address, schema.CoreStall.Phone,
		schema.CoreStall.AvatarURL, schema.CoreStall.CoverURL, schema.CoreStall.IsOpen,
		schema.CoreStall.CreatedAt, schema.CoreStall.UpdatedAt,
		schema.CoreStall.CreatedAt, schema.CoreStall.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		s.ID, s.OwnerID, s.Name, s.Slug, s.Description, s.Address, s.Phone,
		s.AvatarURL, s.CoverURL, s.IsOpen,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return dberr.Wrap(err, "create_stall")
}

func (repository *PostgresRepository) UpdateStall(context context.Context, s *Stall) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		schema.CoreStall.Table,
		schema.CoreStall.Name, schema.CoreStall.Slug, schema.CoreStall.Description,
		schema.CoreStall.Address, schema.CoreStall.Phone, schema.CoreStall.AvatarURL,
		schema.CoreStall.CoverURL, schema.CoreStall.UpdatedAt,
		schema.CoreStall.ID, schema.CoreStall.DeletedAt,
		schema.CoreStall.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		s.ID, s.Name, s.Slug, s.Description, s.Address, s.Phone, s.AvatarURL, s.CoverURL,
	).Scan(&s.UpdatedAt)
	return dberr.Wrap(err, "update_stall")
}

func (repository *PostgresRepository) SetOpen(context context.Context, id string, open bool) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreStall.Table, schema.CoreStall.IsOpen, schema.CoreStall.UpdatedAt,
		schema.CoreStall.ID, schema.CoreStall.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id, open)
	if err != nil {
		return dberr.Wrap(err, "set_stall_open")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteStall(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.CoreStall.Table, schema.CoreStall.DeletedAt, schema.CoreStall.ID, schema.CoreStall.DeletedAt,
	)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_stall")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
