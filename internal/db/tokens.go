package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/isaacaryeepah-beep/EduCorp-Attendance/internal/model"
)

const tokenColumns = `
	id, session_id, company_id, code, token, expires_at, is_used, created_by, created_at
`

func scanToken(row pgx.Row) (model.QrToken, error) {
	var token model.QrToken
	err := row.Scan(
		&token.ID,
		&token.SessionID,
		&token.CompanyID,
		&token.Code,
		&token.Token,
		&token.ExpiresAt,
		&token.IsUsed,
		&token.CreatedBy,
		&token.CreatedAt,
	)
	return token, err
}

func (s *Store) CreateToken(ctx context.Context, token model.QrToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qr_tokens
			(id, session_id, company_id, code, token, expires_at, is_used, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, token.ID, token.SessionID, token.CompanyID, token.Code, token.Token,
		token.ExpiresAt, token.IsUsed, token.CreatedBy, token.CreatedAt)
	return err
}

func (s *Store) GetTokenByValue(ctx context.Context, tokenValue string) (model.QrToken, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+`
		FROM qr_tokens
		WHERE token = $1
	`, tokenValue)
	return scanToken(row)
}

func (s *Store) GetTokenByCode(ctx context.Context, sessionID, code string) (model.QrToken, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+tokenColumns+`
		FROM qr_tokens
		WHERE session_id = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, sessionID, code)
	return scanToken(row)
}

// ValidCodeExists is the collision probe for code generation: a code is only
// taken while an unexpired, unused token for the same session still holds it.
func (s *Store) ValidCodeExists(ctx context.Context, sessionID, code string, now time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM qr_tokens
			WHERE session_id = $1 AND code = $2 AND expires_at > $3 AND is_used = FALSE
		)
	`, sessionID, code, now).Scan(&exists)
	return exists, err
}

// MarkTokenUsed flips is_used exactly once. Returns false when another
// redeemer won the race; the caller reports that as already-used.
func (s *Store) MarkTokenUsed(ctx context.Context, tokenID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE qr_tokens SET is_used = TRUE WHERE id = $1 AND is_used = FALSE
	`, tokenID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListTokensBySession(ctx context.Context, sessionID string) ([]model.QrToken, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+tokenColumns+`
		FROM qr_tokens
		WHERE session_id = $1
		ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []model.QrToken
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// DeleteExpiredTokens is the passive reaper. Redemption never assumes it has
// run; it exists to keep the table small.
func (s *Store) DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM qr_tokens
		WHERE expires_at < $1
		  AND NOT EXISTS (SELECT 1 FROM attendance_records r WHERE r.qr_token_id = qr_tokens.id)
	`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
