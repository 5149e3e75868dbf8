package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillsync/skillsync-api/internal/models"
	"github.com/skillsync/skillsync-api/pkg/apperr"
)

const profileColumns = `id, user_id, bio, expertise, years_experience, hourly_rate,
	phone, ref_no, approved, availability, created_at, updated_at`

type mentorProfileRepository struct {
	pool *pgxpool.Pool
}

func NewMentorProfileRepository(pool *pgxpool.Pool) MentorProfileRepository {
	return &mentorProfileRepository{pool: pool}
}

func scanProfile(row pgx.Row) (*models.MentorProfile, error) {
	var p models.MentorProfile
	var availability []byte
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Bio, &p.Expertise, &p.YearsExperience, &p.HourlyRate,
		&p.Phone, &p.RefNo, &p.Approved, &availability, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(availability, &p.Availability); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}
	return &p, nil
}

func (r *mentorProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.MentorProfile, error) {
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM mentor_profiles WHERE user_id = $1`, profileColumns)
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	track(ctx, "getProfileByUserID", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("mentor profile")
		}
		return nil, apperr.Internal("failed to load mentor profile", err)
	}
	return profile, nil
}

func (r *mentorProfileRepository) ListApproved(ctx context.Context) ([]models.MentorDirectoryEntry, error) {
	start := time.Now()
	operation := "listApprovedMentors"

	query := `
		SELECT p.user_id, u.name, p.expertise, p.bio, p.years_experience,
			p.hourly_rate, p.availability
		FROM mentor_profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.approved = TRUE AND u.suspended = FALSE
		ORDER BY u.name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("failed to list mentors", err)
	}
	defer rows.Close()

	entries := make([]models.MentorDirectoryEntry, 0)
	for rows.Next() {
		var e models.MentorDirectoryEntry
		var availability []byte
		if err := rows.Scan(
			&e.UserID, &e.Name, &e.Expertise, &e.Bio, &e.YearsExperience,
			&e.HourlyRate, &availability,
		); err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to scan mentor row", err)
		}
		if err := json.Unmarshal(availability, &e.Availability); err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to decode availability", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("error iterating mentor rows", err)
	}

	track(ctx, operation, start, nil)
	return entries, nil
}

func (r *mentorProfileRepository) ListMentors(ctx context.Context) ([]models.MentorDetails, error) {
	start := time.Now()
	operation := "listMentorDetails"

	query := fmt.Sprintf(`
		SELECT u.id, u.name, u.email, u.role, u.suspended, u.skills, u.goal, u.avatar_url,
			u.created_at, %s
		FROM mentor_profiles p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`, prefixColumns("p", profileColumns))

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("failed to list mentors", err)
	}
	defer rows.Close()

	details := make([]models.MentorDetails, 0)
	for rows.Next() {
		var d models.MentorDetails
		var p models.MentorProfile
		var role string
		var availability []byte
		if err := rows.Scan(
			&d.User.ID, &d.User.Name, &d.User.Email, &role, &d.User.Suspended,
			&d.User.Skills, &d.User.Goal, &d.User.AvatarURL, &d.User.CreatedAt,
			&p.ID, &p.UserID, &p.Bio, &p.Expertise, &p.YearsExperience, &p.HourlyRate,
			&p.Phone, &p.RefNo, &p.Approved, &availability, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to scan mentor row", err)
		}
		d.User.Role = models.Role(role)
		if err := json.Unmarshal(availability, &p.Availability); err != nil {
			track(ctx, operation, start, err)
			return nil, apperr.Internal("failed to decode availability", err)
		}
		d.Profile = &p
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		track(ctx, operation, start, err)
		return nil, apperr.Internal("error iterating mentor rows", err)
	}

	track(ctx, operation, start, nil)
	return details, nil
}

func (r *mentorProfileRepository) Update(ctx context.Context, userID string, req *models.UpdateMentorProfileRequest) (*models.MentorProfile, error) {
	start := time.Now()

	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	idx := 1

	if req.Bio != nil {
		sets = append(sets, fmt.Sprintf("bio = $%d", idx))
		args = append(args, *req.Bio)
		idx++
	}
	if req.Expertise != nil {
		sets = append(sets, fmt.Sprintf("expertise = $%d", idx))
		args = append(args, req.Expertise)
		idx++
	}
	if req.YearsExperience != nil {
		sets = append(sets, fmt.Sprintf("years_experience = $%d", idx))
		args = append(args, *req.YearsExperience)
		idx++
	}
	if req.HourlyRate != nil {
		sets = append(sets, fmt.Sprintf("hourly_rate = $%d", idx))
		args = append(args, *req.HourlyRate)
		idx++
	}
	if req.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", idx))
		args = append(args, *req.Phone)
		idx++
	}
	if req.Availability != nil {
		encoded, err := json.Marshal(req.Availability)
		if err != nil {
			return nil, apperr.Internal("failed to encode availability", err)
		}
		sets = append(sets, fmt.Sprintf("availability = $%d", idx))
		args = append(args, encoded)
		idx++
	}

	if len(sets) == 0 {
		return r.GetByUserID(ctx, userID)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`
		UPDATE mentor_profiles SET %s WHERE user_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), idx, profileColumns)
	args = append(args, userID)

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, args...))
	track(ctx, "updateMentorProfile", start, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("mentor profile")
		}
		return nil, apperr.Internal("failed to update mentor profile", err)
	}
	return profile, nil
}

func (r *mentorProfileRepository) Count(ctx context.Context) (int, error) {
	start := time.Now()

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM mentor_profiles`).Scan(&total)
	track(ctx, "countMentorProfiles", start, err)

	if err != nil {
		return 0, apperr.Internal("failed to count mentor profiles", err)
	}
	return total, nil
}

// prefixColumns rewrites "a, b" into "t.a, t.b" for joined selects
func prefixColumns(table, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = table + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
