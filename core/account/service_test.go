package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"distr/core/apperr"
	"distr/core/auth"
	"distr/model"
	"distr/repository"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewService(repository.NewGormUserRepository(db), issuer)
}

func mustCreate(t *testing.T, s *Service, actor *model.User, login, password, userType string) *model.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), actor, CreateUserInput{
		Login:    login,
		Password: password,
		Type:     userType,
	})
	require.NoError(t, err)
	return user
}

func TestCreateUserOpenRoles(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	artist := mustCreate(t, s, nil, "artist1", "pw", "ARTIST")
	assert.Equal(t, model.UserTypeArtist, artist.Type)
	assert.NotZero(t, artist.ID)

	label := mustCreate(t, s, nil, "label1", "pw", "LABEL")
	assert.Equal(t, model.UserTypeLabel, label.Type)

	// Password is stored hashed.
	stored, err := s.GetUser(ctx, artist.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw", stored.PasswordHash)
}

func TestCreateUserPrivilegedRoles(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	cases := []struct {
		name      string
		actorType model.UserType
		target    string
		allowed   bool
	}{
		{"anonymous cannot create moderator", "", "MODERATOR", false},
		{"artist cannot create moderator", model.UserTypeArtist, "MODERATOR", false},
		{"moderator can create moderator", model.UserTypeModerator, "MODERATOR", true},
		{"admin can create moderator", model.UserTypeAdmin, "MODERATOR", true},
		{"moderator cannot create admin", model.UserTypeModerator, "ADMIN", false},
		{"admin can create admin", model.UserTypeAdmin, "ADMIN", true},
		{"moderator cannot create platform", model.UserTypeModerator, "PLATFORM", false},
		{"admin can create platform", model.UserTypeAdmin, "PLATFORM", true},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var actor *model.User
			if tc.actorType != "" {
				actor = &model.User{ID: int64(1000 + i), Type: tc.actorType}
			}
			_, err := s.CreateUser(ctx, actor, CreateUserInput{
				Login:    "acct" + string(rune('a'+i)),
				Password: "pw",
				Type:     tc.target,
			})
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied), "got %v", err)
			}
		})
	}
}

func TestCreateUserUnknownType(t *testing.T) {
	s := setupService(t)

	_, err := s.CreateUser(context.Background(), nil, CreateUserInput{
		Login:    "who",
		Password: "pw",
		Type:     "SUPERUSER",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateUserDuplicateLogin(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	mustCreate(t, s, nil, "dup", "pw", "ARTIST")

	_, err := s.CreateUser(ctx, nil, CreateUserInput{Login: "dup", Password: "pw", Type: "LABEL"})
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))

	// Uniqueness is reported before the permission check.
	_, err = s.CreateUser(ctx, nil, CreateUserInput{Login: "dup", Password: "pw", Type: "ADMIN"})
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists), "got %v", err)
}

func TestAuthenticate(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	created := mustCreate(t, s, nil, "singer", "secret", "ARTIST")

	user, token, err := s.Authenticate(ctx, "singer", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotEmpty(t, token)

	_, _, err = s.Authenticate(ctx, "singer", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	_, _, err = s.Authenticate(ctx, "nobody", "secret")
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestUsersByTypeRejectsUnknown(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	mustCreate(t, s, nil, "a1", "pw", "ARTIST")
	mustCreate(t, s, nil, "l1", "pw", "LABEL")

	artists, err := s.UsersByType(ctx, "ARTIST")
	require.NoError(t, err)
	assert.Len(t, artists, 1)

	_, err = s.UsersByType(ctx, "GHOST")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateUserPermissions(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	user := mustCreate(t, s, nil, "editme", "pw", "ARTIST")
	other := mustCreate(t, s, nil, "other", "pw", "ARTIST")

	newLogin := "edited"
	updated, err := s.UpdateUser(ctx, user, user.ID, UpdateUserInput{Login: &newLogin})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Login)

	_, err = s.UpdateUser(ctx, other, user.ID, UpdateUserInput{Login: &newLogin})
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))

	// Role change is admin only, even on yourself.
	adminType := "ADMIN"
	_, err = s.UpdateUser(ctx, updated, updated.ID, UpdateUserInput{Type: &adminType})
	assert.True(t, apperr.IsKind(err, apperr.KindPermissionDenied))
}

func TestDeleteUser(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()

	user := mustCreate(t, s, nil, "gone", "pw", "ARTIST")
	admin := &model.User{ID: 999, Type: model.UserTypeAdmin}

	require.NoError(t, s.DeleteUser(ctx, admin, user.ID))

	_, err := s.GetUser(ctx, user.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	err = s.DeleteUser(ctx, admin, user.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
