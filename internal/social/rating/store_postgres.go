package rating

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
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

// refreshAggregates recomputes the dish's ratingavg/ratingcount from the
// rating table inside the caller's transaction. Recomputing (rather than
// incrementally adjusting) keeps upsert overwrites exact.
func refreshAggregates(context context.Context, transaction pgx.Tx, foodID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = COALESCE((SELECT AVG(%s) FROM %s WHERE %s = $1), 0),
			%s = (SELECT COUNT(*) FROM %s WHERE %s = $1)
		WHERE %s = $1
	`,
		schema.CoreFood.Table,
		schema.CoreFood.RatingAvg, schema.SocialFoodRating.Score, schema.SocialFoodRating.Table, schema.SocialFoodRating.FoodID,
		schema.CoreFood.RatingCount, schema.SocialFoodRating.Table, schema.SocialFoodRating.FoodID,
		schema.CoreFood.ID,
	)

	_, err := transaction.Exec(context, query, foodID)
	return err
}

func (repository *PostgresRepository) Upsert(context context.Context, r *Rating) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_rating_tx")
	}
	defer transaction.Rollback(context)

	// One rating per (user, dish); re-rating overwrites score and comment
	upsertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s, %s, %s
	`,
		schema.SocialFoodRating.Table,
		schema.SocialFoodRating.ID, schema.SocialFoodRating.UserID, schema.SocialFoodRating.FoodID,
		schema.SocialFoodRating.Score, schema.SocialFoodRating.Comment,
		schema.SocialFoodRating.CreatedAt, schema.SocialFoodRating.UpdatedAt,
		schema.SocialFoodRating.UserID, schema.SocialFoodRating.FoodID,
		schema.SocialFoodRating.Score, schema.SocialFoodRating.Score,
		schema.SocialFoodRating.Comment, schema.SocialFoodRating.Comment,
		schema.SocialFoodRating.UpdatedAt,
		schema.SocialFoodRating.ID, schema.SocialFoodRating.CreatedAt, schema.SocialFoodRating.UpdatedAt,
	)

	err = transaction.QueryRow(context, upsertQuery,
		r.ID, r.UserID, r.FoodID, r.Score, r.Comment,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "upsert_rating")
	}

	if err := refreshAggregates(context, transaction, r.FoodID); err != nil {
		return dberr.Wrap(err, "refresh_rating_aggregates")
	}

	return transaction.Commit(context)
}

func (repository *PostgresRepository) ListByFood(context context.Context, foodID string, limit, offset int) ([]*Rating, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.SocialFoodRating.ID, schema.SocialFoodRating.UserID, schema.SocialFoodRating.FoodID,
		schema.SocialFoodRating.Score, schema.SocialFoodRating.Comment,
		schema.SocialFoodRating.CreatedAt, schema.SocialFoodRating.UpdatedAt,
		schema.SocialFoodRating.Table,
		schema.SocialFoodRating.FoodID,
		schema.SocialFoodRating.UpdatedAt,
	)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.SocialFoodRating.Table, schema.SocialFoodRating.FoodID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, foodID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_ratings")
	}

	rows, err := repository.db.Query(context, query, foodID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_ratings")
	}
	defer rows.Close()

	var ratings []*Rating
	for rows.Next() {
		r := &Rating{}
		err := rows.Scan(&r.ID, &r.UserID, &r.FoodID, &r.Score, &r.Comment, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_rating")
		}
		ratings = append(ratings, r)
	}

	return ratings, total, nil
}

func (repository *PostgresRepository) GetByUserAndFood(context context.Context, userID, foodID string) (*Rating, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.SocialFoodRating.ID, schema.SocialFoodRating.UserID, schema.SocialFoodRating.FoodID,
		schema.SocialFoodRating.Score, schema.SocialFoodRating.Comment,
		schema.SocialFoodRating.CreatedAt, schema.SocialFoodRating.UpdatedAt,
		schema.SocialFoodRating.Table,
		schema.SocialFoodRating.UserID, schema.SocialFoodRating.FoodID,
	)

	r := &Rating{}
	err := repository.db.QueryRow(context, query, userID, foodID).Scan(
		&r.ID, &r.UserID, &r.FoodID, &r.Score, &r.Comment, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_rating")
	}
	return r, nil
}

func (repository *PostgresRepository) Delete(context context.Context, userID, foodID string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_rating_delete_tx")
	}
	defer transaction.Rollback(context)

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialFoodRating.Table, schema.SocialFoodRating.UserID, schema.SocialFoodRating.FoodID)

	cmd, err := transaction.Exec(context, query, userID, foodID)
	if err != nil {
		return dberr.Wrap(err, "delete_rating")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := refreshAggregates(context, transaction, foodID); err != nil {
		return dberr.Wrap(err, "refresh_rating_aggregates")
	}

	return transaction.Commit(context)
}
