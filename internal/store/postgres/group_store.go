package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lironhefcode/stock-market/internal/domain"
)

// GroupStore implements domain.GroupStore using PostgreSQL.
type GroupStore struct {
	pool *pgxpool.Pool
}

// NewGroupStore creates a new GroupStore backed by the given connection pool.
func NewGroupStore(pool *pgxpool.Pool) *GroupStore {
	return &GroupStore{pool: pool}
}

var _ domain.GroupStore = (*GroupStore)(nil)

const groupSelectCols = `id, name, invite_code, creator_id, created_at`

func scanGroupRow(row pgx.Row) (domain.Group, error) {
	var g domain.Group
	err := row.Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatorID, &g.CreatedAt)
	if err != nil {
		return domain.Group{}, err
	}
	return g, nil
}

// Create inserts a new group. The unique index on invite_code turns a code
// collision under concurrency into domain.ErrAlreadyExists.
func (s *GroupStore) Create(ctx context.Context, g domain.Group) error {
	const query = `
		INSERT INTO groups (id, name, invite_code, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.pool.Exec(ctx, query, g.ID, g.Name, g.InviteCode, g.CreatorID, g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("postgres: create group %s: %w", g.ID, err)
	}
	return nil
}

// GetByID retrieves a single group by its ID.
func (s *GroupStore) GetByID(ctx context.Context, id string) (domain.Group, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+groupSelectCols+` FROM groups WHERE id = $1`, id)

	g, err := scanGroupRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Group{}, domain.ErrGroupNotFound
		}
		return domain.Group{}, fmt.Errorf("postgres: get group %s: %w", id, err)
	}
	return g, nil
}

// GetByInviteCode retrieves the group holding the given invite code.
func (s *GroupStore) GetByInviteCode(ctx context.Context, code string) (domain.Group, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+groupSelectCols+` FROM groups WHERE invite_code = $1`, code)

	g, err := scanGroupRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Group{}, domain.ErrGroupNotFound
		}
		return domain.Group{}, fmt.Errorf("postgres: get group by invite code: %w", err)
	}
	return g, nil
}

// InviteCodeExists reports whether any group already uses the code.
func (s *GroupStore) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM groups WHERE invite_code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: check invite code: %w", err)
	}
	return exists, nil
}

// Delete removes a group row; memberships cascade via the foreign key.
func (s *GroupStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: delete group %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// List returns all groups ordered by creation time.
func (s *GroupStore) List(ctx context.Context) ([]domain.Group, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+groupSelectCols+` FROM groups ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.InviteCode, &g.CreatorID, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
