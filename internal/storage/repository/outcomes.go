package repository

import (
	"context"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
)

// UpsertOutcome создаёт или перезаписывает результат пользователя по идее.
func (s *Storage) UpsertOutcome(ctx context.Context, o models.Outcome) (*models.Outcome, error) {
	const op = "storage.UpsertOutcome"

	query := `INSERT INTO hustle_outcomes (user_id, hustle_name, action, launched, revenue, feedback)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_id, hustle_name) DO UPDATE
			  SET action = EXCLUDED.action,
			      launched = EXCLUDED.launched,
			      revenue = EXCLUDED.revenue,
			      feedback = EXCLUDED.feedback,
			      updated_at = NOW()
			  RETURNING user_id, hustle_name, action, launched, revenue, feedback, updated_at`
	var out models.Outcome
	if err := s.DB.QueryRowContext(ctx, query,
		o.UserID, o.HustleName, o.Action, o.Launched, o.Revenue, o.Feedback,
	).Scan(&out.UserID, &out.HustleName, &out.Action, &out.Launched, &out.Revenue, &out.Feedback, &out.UpdatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return &out, nil
}

// ListOutcomes возвращает результаты пользователя. Непустой hustleName сужает выборку до одной идеи.
func (s *Storage) ListOutcomes(ctx context.Context, userID, hustleName string) ([]*models.Outcome, error) {
	const op = "storage.ListOutcomes"

	query := `SELECT user_id, hustle_name, action, launched, revenue, feedback, updated_at
			  FROM hustle_outcomes
			  WHERE user_id = $1 AND ($2 = '' OR hustle_name = $2)
			  ORDER BY updated_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID, hustleName)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Outcome, 0)
	for rows.Next() {
		var o models.Outcome
		if err = rows.Scan(&o.UserID, &o.HustleName, &o.Action, &o.Launched, &o.Revenue, &o.Feedback, &o.UpdatedAt); err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, &o)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}
