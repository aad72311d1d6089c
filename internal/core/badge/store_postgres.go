package badge

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

func (repository *PostgresRepository) ListBadges(context context.Context) ([]*Badge, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.CoreBadge.ID, schema.CoreBadge.Name, schema.CoreBadge.Slug,
		schema.CoreBadge.Description, schema.CoreBadge.IconURL,
		schema.CoreBadge.Table, schema.CoreBadge.Name)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_badges")
	}
	defer rows.Close()

	badges := make([]*Badge, 0)
	for rows.Next() {
		b := &Badge{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.IconURL); err != nil {
			return nil, dberr.Wrap(err, "scan_badge")
		}
		badges = append(badges, b)
	}

	return badges, nil
}

func (repository *PostgresRepository) GetBadgeByID(context context.Context, id int) (*Badge, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.CoreBadge.ID, schema.CoreBadge.Name, schema.CoreBadge.Slug,
		schema.CoreBadge.Description, schema.CoreBadge.IconURL,
		schema.CoreBadge.Table, schema.CoreBadge.ID)

	b := &Badge{}
	err := repository.db.QueryRow(context, query, id).Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.IconURL)
	if err != nil {
		return nil, dberr.Wrap(err, "get_badge_by_id")
	}
	return b, nil
}

func (repository *PostgresRepository) CreateBadge(context context.Context, b *Badge) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING %s
	`,
		schema.CoreBadge.Table,
		schema.CoreBadge.Name, schema.CoreBadge.Slug, schema.CoreBadge.Description,
		schema.CoreBadge.IconURL, schema.CoreBadge.CreatedAt,
		schema.CoreBadge.ID,
	)

	err := repository.db.QueryRow(context, query, b.Name, b.Slug, b.Description, b.IconURL).Scan(&b.ID)
	return dberr.Wrap(err, "create_badge")
}

func (repository *PostgresRepository) UpdateBadge(context context.Context, b *Badge) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
	`,
		schema.CoreBadge.Table,
		schema.CoreBadge.Name, schema.CoreBadge.Slug, schema.CoreBadge.Description,
		schema.CoreBadge.IconURL,
		schema.CoreBadge.ID,
	)

	cmd, err := repository.db.Exec(context, query, b.ID, b.Name, b.Slug, b.Description, b.IconURL)
	if err != nil {
		return dberr.Wrap(err, "update_badge")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteBadge(context context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.CoreBadge.Table, schema.CoreBadge.ID)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_badge")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) ListAwardsByStall(context context.Context, stallID string) ([]*Award, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, sb.%s, sb.%s
		FROM %s sb
		JOIN %s b ON sb.%s = b.%s
		WHERE sb.%s = $1
		ORDER BY sb.%s DESC
	`,
		schema.CoreBadge.ID, schema.CoreBadge.Name, schema.CoreBadge.Slug,
		schema.CoreBadge.Description, schema.CoreBadge.IconURL,
		schema.CoreStallBadge.StallID, schema.CoreStallBadge.AwardedAt,
		schema.CoreStallBadge.Table, schema.CoreBadge.Table,
		schema.CoreStallBadge.BadgeID, schema.CoreBadge.ID,
		schema.CoreStallBadge.StallID, schema.CoreStallBadge.AwardedAt,
	)

	rows, err := repository.db.Query(context, query, stallID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_stall_badges")
	}
	defer rows.Close()

	awards := make([]*Award, 0)
	for rows.Next() {
		a := &Award{}
		err := rows.Scan(
			&a.Badge.ID, &a.Badge.Name, &a.Badge.Slug, &a.Badge.Description, &a.Badge.IconURL,
			&a.StallID, &a.AwardedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_stall_badge")
		}
		awards = append(awards, a)
	}

	return awards, nil
}

func (repository *PostgresRepository) AwardBadge(context context.Context, badgeID int, stallID string) error {
	// Idempotent grant: re-awarding is a no-op
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, NOW())
		ON CONFLICT (%s, %s) DO NOTHING
	`,
		schema.CoreStallBadge.Table,
		schema.CoreStallBadge.BadgeID, schema.CoreStallBadge.StallID, schema.CoreStallBadge.AwardedAt,
		schema.CoreStallBadge.BadgeID, schema.CoreStallBadge.StallID,
	)

	_, err := repository.db.Exec(context, query, badgeID, stallID)
	return dberr.Wrap(err, "award_badge")
}

func (repository *PostgresRepository) RevokeBadge(context context.Context, badgeID int, stallID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.CoreStallBadge.Table, schema.CoreStallBadge.BadgeID, schema.CoreStallBadge.StallID)

	cmd, err := repository.db.Exec(context, query, badgeID, stallID)
	if err != nil {
		return dberr.Wrap(err, "revoke_badge")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}
