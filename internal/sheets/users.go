package sheets

import (
	"context"
	"time"

	"mentor-backend/internal/auth"
)

const usersSheet = "users"

// UserRecord mirrors the column layout of the users sheet.
type UserRecord struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// Users reads and writes user records. The sheet is the system of record; every
// lookup is a fresh remote read, nothing is cached.
type Users struct {
	client *Client
}

func NewUsers(client *Client) *Users {
	return &Users{client: client}
}

// FindByEmail scans the users sheet for a case-normalized email match. Returns
// (nil, nil) when the user is truly absent; a non-nil error means the store could
// not be consulted and absence is unknown.
func (u *Users) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	email = auth.NormalizeEmail(email)

	rows, err := u.client.Rows(ctx, usersSheet)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if auth.NormalizeEmail(row["Email"]) == email {
			return &UserRecord{
				Name:         row["Name"],
				Email:        auth.NormalizeEmail(row["Email"]),
				PasswordHash: row["Password_Hash"],
				CreatedAt:    row["Created_At"],
			}, nil
		}
	}
	return nil, nil
}

// Create appends a user record. The sheet enforces no uniqueness; callers must
// check-then-create, and the race between two concurrent registrations is an
// accepted gap.
func (u *Users) Create(ctx context.Context, record UserRecord) error {
	createdAt := record.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().Format("2006-01-02 15:04")
	}
	return u.client.Append(ctx, usersSheet, map[string]string{
		"Name":          record.Name,
		"Email":         record.Email,
		"Password_Hash": record.PasswordHash,
		"Created_At":    createdAt,
	})
}
