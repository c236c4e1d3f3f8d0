// Package user defines the user domain entity
package user

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCalorieGoal is assigned when a user is created without one.
const DefaultCalorieGoal = 2000

var (
	ErrEmailRequired       = errors.New("email is required")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name too long")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong     = errors.New("password too long")
	ErrInvalidCalorieGoal  = errors.New("calorie goal must be between 0 and 20000")
	ErrPasswordHashFailure = errors.New("failed to hash password")
)

// User represents a user in the system
type User struct {
	id           uint
	email        string
	name         string
	passwordHash string
	profile      Profile
	createdAt    time.Time
	updatedAt    time.Time
}

// Profile is the editable part of a user.
type Profile struct {
	CalorieGoal int
	Avatar      string
	Phone       string
	Address     string
	IDNumber    string
}

// Snapshot is the flat, persistence-facing view of a user.
type Snapshot struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new user with validation
func NewUser(email, name, password string, calorieGoal int) (*User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if calorieGoal == 0 {
		calorieGoal = DefaultCalorieGoal
	}
	if err := validateCalorieGoal(calorieGoal); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrPasswordHashFailure
	}

	now := time.Now().UTC()
	return &User{
		email:        email,
		name:         name,
		passwordHash: string(hashedPassword),
		profile:      Profile{CalorieGoal: calorieGoal},
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// NormalizeEmail is the stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Reconstitute rebuilds a user from stored state.
func Reconstitute(s Snapshot) *User {
	return &User{
		id:           s.ID,
		email:        s.Email,
		name:         s.Name,
		passwordHash: s.PasswordHash,
		profile:      s.Profile,
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}

// Snapshot returns the user's state.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		ID:           u.id,
		Email:        u.email,
		Name:         u.name,
		PasswordHash: u.passwordHash,
		Profile:      u.profile,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

// ID returns the user's ID
func (u *User) ID() uint {
	return u.id
}

// AssignID is called by the repository after insert.
func (u *User) AssignID(id uint) {
	u.id = id
}

// Email returns the user's email
func (u *User) Email() string {
	return u.email
}

// Name returns the user's name
func (u *User) Name() string {
	return u.name
}

// Profile returns the user's profile
func (u *User) Profile() Profile {
	return u.profile
}

func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// CheckPassword verifies if the provided password matches
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
}

// UpdateProfile replaces the user's profile
func (u *User) UpdateProfile(profile Profile) error {
	if err := validateCalorieGoal(profile.CalorieGoal); err != nil {
		return err
	}
	profile.Avatar = strings.TrimSpace(profile.Avatar)
	profile.Phone = strings.TrimSpace(profile.Phone)
	profile.Address = strings.TrimSpace(profile.Address)
	profile.IDNumber = strings.TrimSpace(profile.IDNumber)

	u.profile = profile
	u.updatedAt = time.Now().UTC()
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || len(email) > 255 {
		return ErrInvalidEmail
	}

	return nil
}

func validateName(name string) error {
	if name == "" {
		return ErrNameRequired
	}
	if len(name) > 100 {
		return ErrNameTooLong
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}

func validateCalorieGoal(goal int) error {
	if goal < 0 || goal > 20000 {
		return ErrInvalidCalorieGoal
	}
	return nil
}
