package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/agro_shop/internal/logging"
	"github.com/Skotchmaster/agro_shop/internal/models"
)

// UpsertUserInput carries only the fields the caller wants written.
// A nil pointer leaves the stored value alone; a pointer to "" clears it.
type UpsertUserInput struct {
	OpenID       string
	Name         *string
	Email        *string
	LoginMethod  *string
	PasswordHash *string
	Role         *string
	LastSignedIn *time.Time
}

func (r *GormRepo) UpsertUser(ctx context.Context, in UpsertUserInput) error {
	if strings.TrimSpace(in.OpenID) == "" {
		return fmt.Errorf("user openId is required for upsert: %w", ErrValidation)
	}
	db, ok := r.conn(ctx, "upsert_user")
	if !ok {
		return nil
	}

	now := time.Now().UTC()
	signedIn := now
	if in.LastSignedIn != nil {
		signedIn = in.LastSignedIn.UTC()
	}

	user := models.User{OpenID: in.OpenID, LastSignedIn: signedIn}
	updates := map[string]any{
		"last_signed_in": signedIn,
		"updated_at":     now,
	}

	setText := func(column string, v *string, dst **string) {
		if v == nil {
			return
		}
		if *v == "" {
			updates[column] = nil
			return
		}
		*dst = v
		updates[column] = *v
	}
	setText("name", in.Name, &user.Name)
	setText("email", in.Email, &user.Email)
	setText("login_method", in.LoginMethod, &user.LoginMethod)

	if in.PasswordHash != nil {
		user.PasswordHash = *in.PasswordHash
		updates["password_hash"] = *in.PasswordHash
	}

	switch {
	case in.Role != nil:
		user.Role = *in.Role
		updates["role"] = *in.Role
	case r.OwnerOpenID != "" && in.OpenID == r.OwnerOpenID:
		user.Role = models.RoleAdmin
		updates["role"] = models.RoleAdmin
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "open_id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(&user).Error
	if err != nil {
		return fail(ctx, "upsert_user", err)
	}
	logging.FromContext(ctx).Debug("upsert_user_success", "open_id", in.OpenID)
	return nil
}

func (r *GormRepo) GetUserByOpenID(ctx context.Context, openID string) (*models.User, error) {
	db, ok := r.conn(ctx, "get_user_by_open_id")
	if !ok {
		return nil, ErrNotFound
	}
	var user models.User
	if err := db.Where("open_id = ?", openID).First(&user).Error; err != nil {
		return nil, fail(ctx, "get_user_by_open_id", err)
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	db, ok := r.conn(ctx, "get_user_by_email")
	if !ok {
		return nil, ErrNotFound
	}
	var user models.User
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, fail(ctx, "get_user_by_email", err)
	}
	return &user, nil
}
