package pgsql

import (
	"context"
	"errors"

	"github.com/fambudget/family_budget_app/internal/apperrors"
	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFamilyRepository struct {
	BaseRepository
}

// newPgxFamilyRepository creates a new repository for family and membership data.
func newPgxFamilyRepository(pool *pgxpool.Pool) portsrepo.FamilyRepositoryFacade {
	return &PgxFamilyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.FamilyRepositoryFacade = (*PgxFamilyRepository)(nil)

const familySelectQuery = `
SELECT f.family_id, f.name, f.description,
	f.created_at, f.created_by, f.last_updated_at, f.last_updated_by
FROM families f
`

func scanFamily(row pgx.Row) (*domain.Family, error) {
	var f domain.Family
	err := row.Scan(
		&f.FamilyID,
		&f.Name,
		&f.Description,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan family row", err)
	}
	return &f, nil
}

func (r *PgxFamilyRepository) FindFamilyByID(ctx context.Context, familyID string) (*domain.Family, error) {
	query := familySelectQuery + `WHERE f.family_id = $1`
	return scanFamily(r.Pool.QueryRow(ctx, query, familyID))
}

func (r *PgxFamilyRepository) ListFamiliesByUserID(ctx context.Context, userID string) ([]domain.Family, error) {
	query := familySelectQuery + `
		JOIN family_members fm ON fm.family_id = f.family_id
		WHERE fm.user_id = $1 AND fm.is_active = TRUE
		ORDER BY f.created_at ASC`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query families for user "+userID, err)
	}
	defer rows.Close()

	families := []domain.Family{}
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		families = append(families, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating family rows", err)
	}
	return families, nil
}

func (r *PgxFamilyRepository) CountActiveMembers(ctx context.Context, familyID string) (int64, error) {
	query := `SELECT COUNT(*) FROM family_members WHERE family_id = $1 AND is_active = TRUE`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, familyID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count members of family "+familyID, err)
	}
	return count, nil
}

// CreateFamilyWithOwner inserts the family and the creator's admin membership
// in a single transaction so a half-created family can never be observed.
func (r *PgxFamilyRepository) CreateFamilyWithOwner(ctx context.Context, family domain.Family, owner domain.FamilyMember) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	familyQuery := `
		INSERT INTO families (family_id, name, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, familyQuery,
		family.FamilyID,
		family.Name,
		family.Description,
		family.CreatedAt,
		family.CreatedBy,
		family.LastUpdatedAt,
		family.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert family "+family.FamilyID, err)
	}

	memberQuery := `
		INSERT INTO family_members (member_id, family_id, user_id, role, is_active, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, memberQuery,
		owner.MemberID,
		owner.FamilyID,
		owner.UserID,
		owner.Role,
		owner.IsActive,
		owner.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert owner membership for family "+family.FamilyID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxFamilyRepository) UpdateFamily(ctx context.Context, family domain.Family) error {
	query := `
		UPDATE families
		SET name = $1, description = $2, last_updated_at = $3, last_updated_by = $4
		WHERE family_id = $5;
	`
	result, err := r.Pool.Exec(ctx, query,
		family.Name,
		family.Description,
		family.LastUpdatedAt,
		family.LastUpdatedBy,
		family.FamilyID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update family "+family.FamilyID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("family " + family.FamilyID + " not found")
	}
	return nil
}

func (r *PgxFamilyRepository) DeleteFamily(ctx context.Context, familyID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM families WHERE family_id = $1`, familyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete family "+familyID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("family " + familyID + " not found")
	}
	return nil
}

func (r *PgxFamilyRepository) FindMembership(ctx context.Context, familyID, userID string) (*domain.FamilyMember, error) {
	query := `
		SELECT fm.member_id, fm.family_id, fm.user_id, u.name, fm.role, fm.is_active, fm.joined_at
		FROM family_members fm
		JOIN users u ON u.user_id = fm.user_id
		WHERE fm.family_id = $1 AND fm.user_id = $2;
	`
	var m domain.FamilyMember
	err := r.Pool.QueryRow(ctx, query, familyID, userID).Scan(
		&m.MemberID,
		&m.FamilyID,
		&m.UserID,
		&m.UserName,
		&m.Role,
		&m.IsActive,
		&m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query membership", err)
	}
	return &m, nil
}

func (r *PgxFamilyRepository) ListMembers(ctx context.Context, familyID string) ([]domain.FamilyMember, error) {
	query := `
		SELECT fm.member_id, fm.family_id, fm.user_id, u.name, fm.role, fm.is_active, fm.joined_at
		FROM family_members fm
		JOIN users u ON u.user_id = fm.user_id
		WHERE fm.family_id = $1
		ORDER BY fm.joined_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, familyID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query members of family "+familyID, err)
	}
	defer rows.Close()

	members := []domain.FamilyMember{}
	for rows.Next() {
		var m domain.FamilyMember
		err := rows.Scan(
			&m.MemberID,
			&m.FamilyID,
			&m.UserID,
			&m.UserName,
			&m.Role,
			&m.IsActive,
			&m.JoinedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan membership row", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating membership rows", err)
	}
	return members, nil
}

func (r *PgxFamilyRepository) SaveMembership(ctx context.Context, member domain.FamilyMember) error {
	query := `
		INSERT INTO family_members (member_id, family_id, user_id, role, is_active, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		member.MemberID,
		member.FamilyID,
		member.UserID,
		member.Role,
		member.IsActive,
		member.JoinedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_family_members_family_user") {
			return apperrors.NewConflictError("user " + member.UserID + " already has a membership in family " + member.FamilyID)
		}
		return apperrors.NewAppError(500, "failed to save membership "+member.MemberID, err)
	}
	return nil
}

func (r *PgxFamilyRepository) UpdateMembership(ctx context.Context, member domain.FamilyMember) error {
	query := `
		UPDATE family_members
		SET role = $1, is_active = $2
		WHERE member_id = $3;
	`
	result, err := r.Pool.Exec(ctx, query, member.Role, member.IsActive, member.MemberID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update membership "+member.MemberID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("membership " + member.MemberID + " not found")
	}
	return nil
}
