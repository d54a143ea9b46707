package repositories

import (
	"context"
	"time"

	"github.com/adityarathore/fintrack-api/internal/database"
	"github.com/adityarathore/fintrack-api/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, full_name, email, password_hash, email_verified, profile_image_url,
		otp_code, otp_purpose, otp_created_at, otp_expires_at, password_reset_verified,
		created_at, updated_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// rowScanner interface for scanning user rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var otpPurpose *string

	err := scanner.Scan(
		&user.ID, &user.FullName, &user.Email, &user.PasswordHash,
		&user.EmailVerified, &user.ProfileImageURL,
		&user.OTPCode, &otpPurpose, &user.OTPCreatedAt, &user.OTPExpiresAt,
		&user.PasswordResetVerified,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if otpPurpose != nil {
		purpose := models.OTPPurpose(*otpPurpose)
		user.OTPPurpose = &purpose
	}

	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUserRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUserRow(r.db.Pool.QueryRow(ctx, query, email))
}

// Create inserts a new user. The unique index on email maps concurrent
// duplicate registrations to models.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, full_name, email, password_hash, email_verified, profile_image_url,
			otp_code, otp_purpose, otp_created_at, otp_expires_at, password_reset_verified,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + userColumns

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		user.ID, user.FullName, user.Email, user.PasswordHash,
		user.EmailVerified, user.ProfileImageURL,
		user.OTPCode, otpPurposeValue(user.OTPPurpose), user.OTPCreatedAt, user.OTPExpiresAt,
		user.PasswordResetVerified, user.CreatedAt, user.UpdatedAt,
	))
}

// Update persists every mutable field in one statement so OTP state,
// verification flags and the password hash change atomically.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET full_name = $1, password_hash = $2, email_verified = $3, profile_image_url = $4,
			otp_code = $5, otp_purpose = $6, otp_created_at = $7, otp_expires_at = $8,
			password_reset_verified = $9, updated_at = $10
		WHERE id = $11
		RETURNING ` + userColumns

	return scanUserRow(r.db.Pool.QueryRow(ctx, query,
		user.FullName, user.PasswordHash, user.EmailVerified, user.ProfileImageURL,
		user.OTPCode, otpPurposeValue(user.OTPPurpose), user.OTPCreatedAt, user.OTPExpiresAt,
		user.PasswordResetVerified, user.UpdatedAt, id,
	))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func otpPurposeValue(p *models.OTPPurpose) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}
