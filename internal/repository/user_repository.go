package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

const userColumns = `id, name, email, password_hash, role, suspended, chosen_mentor_id,
	skills, goal, avatar_url, reset_token, reset_token_expires_at, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Suspended, &u.ChosenMentorID,
		&u.Skills, &u.Goal, &u.AvatarURL, &u.ResetToken, &u.ResetTokenExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	start := time.Now()

	query := `
		INSERT INTO users (id, name, email, password_hash, role, suspended, skills, goal, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, string(user.Role),
		user.Suspended, user.Skills, user.Goal, user.AvatarURL,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	track(ctx, "createUser", start, err)

	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("email already registered")
		}
		return apperr.Internal("failed to create user", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	track(ctx, "getUserByID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE LOWER(email) = LOWER($1)`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	track(ctx, "getUserByEmail", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE reset_token = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, token))
	track(ctx, "getUserByResetToken", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("reset token")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context, q models.UserListQuery) ([]models.User, int, error) {
	start := time.Now()
	operation := "listUsers"

	where := ""
	args := []any{}
	if q.Query != "" {
		where = `WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+q.Query+"%")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM users %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to count users", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("failed to list users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			track(ctx, operation, start, err)
			return nil, 0, apperr.Internal("failed to scan user row", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, 0, apperr.Internal("error iterating user rows", err)
	}

	track(ctx, operation, start, nil)
	return users, total, nil
}

func (r *userRepository) ListAll(ctx context.Context) ([]models.User, error) {
	start := time.Now()
	operation := "listAllUsers"

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at ASC`, userColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("failed to list users", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to scan user row", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("error iterating user rows", err)
	}

	track(ctx, operation, start, nil)
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	track(ctx, "countUsers", start, err)

	if err != nil {
		return 0, apperr.Internal("failed to count users", err)
	}
	return total, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	start := time.Now()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)).Scan(&total)
	track(ctx, "countUsersByRole", start, err)

	if err != nil {
		return 0, apperr.Internal("failed to count users by role", err)
	}
	return total, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`,
		string(role), id,
	)
	track(ctx, "updateUserRole", start, err)

	if err != nil {
		return apperr.Internal("failed to update user role", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	track(ctx, "updateUserPassword", start, err)

	if err != nil {
		return apperr.Internal("failed to update password", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *userRepository) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token = $1, reset_token_expires_at = $2, updated_at = NOW() WHERE id = $3`,
		token, expiresAt, id,
	)
	track(ctx, "setResetToken", start, err)

	if err != nil {
		return apperr.Internal("failed to set reset token", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *userRepository) ClearResetToken(ctx context.Context, id string) error {
	start := time.Now()

	_, err := r.pool.Exec(ctx,
		`UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL, updated_at = NOW() WHERE id = $1`,
		id,
	)
	track(ctx, "clearResetToken", start, err)

	if err != nil {
		return apperr.Internal("failed to clear reset token", err)
	}
	return nil
}

func (r *userRepository) SetSuspended(ctx context.Context, id string, suspended bool) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET suspended = $1, updated_at = NOW() WHERE id = $2`,
		suspended, id,
	)
	track(ctx, "setUserSuspended", start, err)

	if err != nil {
		return apperr.Internal("failed to update suspension", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.User, error) {
	start := time.Now()

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	idx := 1

	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, *req.Name)
		idx++
	}
	if req.Goal != nil {
		sets = append(sets, fmt.Sprintf("goal = $%d", idx))
		args = append(args, *req.Goal)
		idx++
	}
	if req.Skills != nil {
		sets = append(sets, fmt.Sprintf("skills = $%d", idx))
		args = append(args, req.Skills)
		idx++
	}
	if req.AvatarURL != nil {
		sets = append(sets, fmt.Sprintf("avatar_url = $%d", idx))
		args = append(args, *req.AvatarURL)
		idx++
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), idx, userColumns)
	args = append(args, id)

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	track(ctx, "updateUserProfile", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Internal("failed to update profile", err)
	}
	return user, nil
}

func (r *userRepository) SetAvatarURL(ctx context.Context, id, avatarURL string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET avatar_url = $1, updated_at = NOW() WHERE id = $2`,
		avatarURL, id,
	)
	track(ctx, "setUserAvatar", start, err)

	if err != nil {
		return apperr.Internal("failed to set avatar", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	track(ctx, "deleteUser", start, err)

	if err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}
