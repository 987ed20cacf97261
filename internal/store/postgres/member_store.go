package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// MemberStore implements domain.MemberStore using PostgreSQL. Positions are
// stored as a JSONB document on the membership row; pgx (de)serialises them
// through encoding/json.
type MemberStore struct {
	pool *pgxpool.Pool
}

// NewMemberStore creates a new MemberStore backed by the given connection pool.
func NewMemberStore(pool *pgxpool.Pool) *MemberStore {
	return &MemberStore{pool: pool}
}

var _ domain.MemberStore = (*MemberStore)(nil)

const memberSelectCols = `id, group_id, user_id, username, positions, joined_at`

func scanMemberRow(row pgx.Row) (domain.Member, error) {
	var m domain.Member
	err := row.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Username, &m.Positions, &m.JoinedAt)
	if err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

// Create inserts a new membership. The unique index on user_id turns a
// concurrent double-join into domain.ErrAlreadyMember regardless of which
// group the racing request targeted.
func (s *MemberStore) Create(ctx context.Context, m domain.Member) error {
	const query = `
		INSERT INTO members (id, group_id, user_id, username, positions, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query, m.ID, m.GroupID, m.UserID, m.Username, m.Positions, m.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("postgres: create member %s: %w", m.ID, err)
	}
	return nil
}

// GetByUserID retrieves the membership held by userID, if any.
func (s *MemberStore) GetByUserID(ctx context.Context, userID string) (domain.Member, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+memberSelectCols+` FROM members WHERE user_id = $1`, userID)

	m, err := scanMemberRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, domain.ErrNotAMember
		}
		return domain.Member{}, fmt.Errorf("postgres: get member by user %s: %w", userID, err)
	}
	return m, nil
}

// ListByGroup returns all members of a group in join order.
func (s *MemberStore) ListByGroup(ctx context.Context, groupID string) ([]domain.Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+memberSelectCols+` FROM members
		 WHERE group_id = $1
		 ORDER BY joined_at`, groupID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list members of group %s: %w", groupID, err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.Username, &m.Positions, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ReplacePositions overwrites a member's positions wholesale.
func (s *MemberStore) ReplacePositions(ctx context.Context, memberID string, positions []domain.Position) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE members SET positions = $2 WHERE id = $1`, memberID, positions)
	if err != nil {
		return fmt.Errorf("postgres: replace positions for member %s: %w", memberID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the membership of userID in groupID.
func (s *MemberStore) Delete(ctx context.Context, groupID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM members WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("postgres: delete member %s from group %s: %w", userID, groupID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotAMember
	}
	return nil
}
