package storage

import (
	"context"

	"gorm.io/gorm"

	authmodel "gameshelf-server-go/internal/domain/auth/model"
	"gameshelf-server-go/internal/platform/errors"
)

// UserRepository persists users and their role assignments. It doubles as the
// credential store consumed by the authentication service.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindBySubject satisfies the auth domain's CredentialStore contract. A
// missing user returns (nil, nil); the caller decides how to treat absence.
func (r *UserRepository) FindBySubject(ctx context.Context, name string) (*authmodel.Identity, error) {
	var user User
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", name).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_subject", "failed to find user", err)
	}
	return toIdentity(&user), nil
}

func toIdentity(user *User) *authmodel.Identity {
	identity := &authmodel.Identity{
		Subject:            user.Username,
		PasswordHash:       user.PasswordHash,
		Enabled:            user.Enabled,
		Locked:             user.Locked,
		Expired:            user.Expired,
		CredentialsExpired: user.CredentialsExpired,
	}
	for _, role := range user.Roles {
		identity.Roles = append(identity.Roles, authmodel.Role{
			Name:   role.Name,
			Active: role.Active,
		})
	}
	return identity
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_id", "failed to find user", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.WithContext(ctx).Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(errors.KindStorage, "user.find_by_username", "failed to find user", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := r.db.WithContext(ctx).Preload("Roles").Order("id").Find(&users).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "user.list", "failed to list users", err)
	}
	return users, nil
}

// Create stores a user and attaches the named roles. Unknown role names fail
// the whole call.
func (r *UserRepository) Create(ctx context.Context, user *User, roleNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles, err := rolesByName(tx, roleNames)
		if err != nil {
			return err
		}
		user.Roles = roles
		if err := tx.Create(user).Error; err != nil {
			return errors.Wrap(errors.KindStorage, "user.create", "failed to create user", err)
		}
		return nil
	})
}

// Update saves user fields and, when roleNames is non-nil, replaces the role
// assignment.
func (r *UserRepository) Update(ctx context.Context, user *User, roleNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return errors.Wrap(errors.KindStorage, "user.update", "failed to update user", err)
		}
		if roleNames == nil {
			return nil
		}
		roles, err := rolesByName(tx, roleNames)
		if err != nil {
			return err
		}
		if err := tx.Model(user).Association("Roles").Replace(roles); err != nil {
			return errors.Wrap(errors.KindStorage, "user.update_roles", "failed to replace roles", err)
		}
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Select("Roles").Delete(&User{ID: id}).Error; err != nil {
		return errors.Wrap(errors.KindStorage, "user.delete", "failed to delete user", err)
	}
	return nil
}

func rolesByName(tx *gorm.DB, names []string) ([]Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var roles []Role
	if err := tx.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, errors.Wrap(errors.KindStorage, "role.find_by_name", "failed to find roles", err)
	}
	if len(roles) != len(names) {
		return nil, errors.New(errors.KindStorage, "role.find_by_name", "one or more role names are unknown")
	}
	return roles, nil
}
