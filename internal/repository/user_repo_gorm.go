package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByLogin(ctx context.Context, usernameOrEmail string) (*domain.User, error)
}

// UserRecord is the gorm model behind the users table.
type UserRecord struct {
	ID                  string    `gorm:"column:id;primaryKey;type:uuid"`
	Username            string    `gorm:"column:username;uniqueIndex;not null"`
	Email               string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash        string    `gorm:"column:password_hash;not null"`
	FirstName           string    `gorm:"column:first_name"`
	LastName            string    `gorm:"column:last_name"`
	Role                string    `gorm:"column:role;not null"`
	AssignedAirlineCode *string   `gorm:"column:assigned_airline_code"`
	Status              string    `gorm:"column:status;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserRecord) TableName() string {
	return "users"
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// OpenGorm connects gorm to Postgres with query logging silenced.
func OpenGorm(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	rec := toUserRecord(user)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("%w: username or email already registered", domain.ErrValidation)
		}
		return err
	}
	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var rec UserRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, activeStatus).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return rec.toDomain(), nil
}

// GetByLogin matches either the username or the email address.
func (r *GormUserRepository) GetByLogin(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	var rec UserRecord
	err := r.db.WithContext(ctx).
		Where("(username = ? OR email = ?) AND status = ?", usernameOrEmail, usernameOrEmail, activeStatus).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err, "user "+usernameOrEmail)
	}
	return rec.toDomain(), nil
}

func toUserRecord(u *domain.User) UserRecord {
	rec := UserRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         string(u.Role),
		Status:       string(u.Status),
	}
	if rec.Status == "" {
		rec.Status = activeStatus
	}
	if u.AssignedAirlineCode != "" {
		code := u.AssignedAirlineCode
		rec.AssignedAirlineCode = &code
	}
	return rec
}

func (rec UserRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		FirstName:    rec.FirstName,
		LastName:     rec.LastName,
		Role:         domain.Role(rec.Role),
		Status:       domain.RecordStatus(rec.Status),
		CreatedAt:    rec.CreatedAt,
	}
	if rec.AssignedAirlineCode != nil {
		u.AssignedAirlineCode = *rec.AssignedAirlineCode
	}
	return u
}

var _ UserRepository = (*GormUserRepository)(nil)
