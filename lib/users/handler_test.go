package usershandler

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hrms-backend/lib/utils/helpers"
	"hrms-backend/models"
	usersapimodels "hrms-backend/models/api/users"
	dbmodels "hrms-backend/models/db"
)

type fakeUserStore struct {
	users map[string]*dbmodels.User
}

func (f *fakeUserStore) Create(rec dbmodels.User) (string, error) {
	f.users[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeUserStore) Update(userID string, updMap map[string]interface{}) error {
	rec, ok := f.users[userID]
	if !ok {
		return nil
	}
	for k, v := range updMap {
		switch k {
		case "name":
			rec.Name = v.(string)
		case "email":
			rec.Email = v.(string)
		case "role":
			rec.Role = v.(models.UserRole)
		case "phone":
			rec.Phone = helpers.Ptr(v.(string))
		case "salary":
			rec.Salary = helpers.Ptr(v.(float64))
		case "password":
			rec.Password = v.(string)
		case "avatar_object":
			rec.AvatarObject = helpers.Ptr(v.(string))
		case "avatar_url":
			rec.AvatarURL = helpers.Ptr(v.(string))
		}
	}
	return nil
}

func (f *fakeUserStore) Delete(userID string) error {
	delete(f.users, userID)
	return nil
}

func (f *fakeUserStore) List() ([]dbmodels.User, error) {
	var list []dbmodels.User
	for _, u := range f.users {
		list = append(list, *u)
	}
	return list, nil
}

func (f *fakeUserStore) GetByID(userID string) (*dbmodels.User, error) {
	rec, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*dbmodels.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) ExistByEmail(email string) (bool, error) {
	rec, _ := f.FindByEmail(email)
	return rec != nil, nil
}

func (f *fakeUserStore) Count() (int64, error) {
	return int64(len(f.users)), nil
}

type fakeFiles struct {
	objects map[string][]byte
}

func (f *fakeFiles) IsConfigured() bool { return true }

func (f *fakeFiles) UploadAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	name := "avatars/" + userID + "/" + string(rune('a'+len(f.objects)))
	f.objects[name] = data
	return name, nil
}

func (f *fakeFiles) GetFile(ctx context.Context, objectName string) ([]byte, string, error) {
	return f.objects[objectName], "image/png", nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, objectName string) error {
	delete(f.objects, objectName)
	return nil
}

func newTestHandler() (impl, *fakeUserStore) {
	store := &fakeUserStore{users: map[string]*dbmodels.User{
		"a1": {BaseModel: dbmodels.BaseModel{ID: "a1"}, Name: "Admin", Email: "admin@hrms.com", Role: models.AdminRole},
		"u1": {BaseModel: dbmodels.BaseModel{ID: "u1"}, Name: "Jane", Email: "jane@hrms.com", Role: models.EmployeeRole, Salary: helpers.Ptr(120000.0)},
		"u2": {BaseModel: dbmodels.BaseModel{ID: "u2"}, Name: "Bob", Email: "bob@hrms.com", Role: models.EmployeeRole},
	}}
	return impl{userStore: store, fileStorage: &fakeFiles{objects: map[string][]byte{}}}, store
}

func TestUpdate(t *testing.T) {
	admin := models.Actor{UserID: "a1", Role: models.AdminRole}
	jane := models.Actor{UserID: "u1", Role: models.EmployeeRole}

	t.Run("employee updates own phone", func(t *testing.T) {
		h, _ := newTestHandler()
		user, err := h.Update(jane, "u1", usersapimodels.UpdateUser{Phone: helpers.Ptr("555-1234")})
		require.NoError(t, err)
		require.Equal(t, "555-1234", *user.Phone)
		require.Equal(t, "Jane", user.Name)
		require.Equal(t, 120000.0, *user.Salary)
	})
	t.Run("employee cannot touch other user", func(t *testing.T) {
		h, _ := newTestHandler()
		_, err := h.Update(jane, "u2", usersapimodels.UpdateUser{Name: helpers.Ptr("Robert")})
		require.True(t, errors.Is(err, models.ErrForbidden))
	})
	t.Run("employee cannot raise own salary", func(t *testing.T) {
		h, _ := newTestHandler()
		_, err := h.Update(jane, "u1", usersapimodels.UpdateUser{Salary: helpers.Ptr(999999.0)})
		require.True(t, errors.Is(err, models.ErrForbidden))
	})
	t.Run("full identity round trip is accepted", func(t *testing.T) {
		h, _ := newTestHandler()
		current, err := h.GetByID("u1")
		require.NoError(t, err)
		user, err := h.Update(jane, "u1", usersapimodels.UpdateFromUser(current))
		require.NoError(t, err)
		require.Equal(t, current, user)
	})
	t.Run("email conflict", func(t *testing.T) {
		h, _ := newTestHandler()
		_, err := h.Update(admin, "u1", usersapimodels.UpdateUser{Email: helpers.Ptr("BOB@hrms.com")})
		require.True(t, errors.Is(err, models.ErrConflict))
	})
	t.Run("email case change is written", func(t *testing.T) {
		h, store := newTestHandler()
		store.users["u1"].Email = "Jane@hrms.com"
		user, err := h.Update(jane, "u1", usersapimodels.UpdateUser{Email: helpers.Ptr("jane@hrms.com")})
		require.NoError(t, err)
		require.Equal(t, "jane@hrms.com", user.Email)
		require.Equal(t, "jane@hrms.com", store.users["u1"].Email)
	})
	t.Run("password is hashed", func(t *testing.T) {
		h, store := newTestHandler()
		_, err := h.Update(admin, "u2", usersapimodels.UpdateUser{Password: helpers.Ptr("secret")})
		require.NoError(t, err)
		require.NotEqual(t, "secret", store.users["u2"].Password)
	})
	t.Run("unknown user", func(t *testing.T) {
		h, _ := newTestHandler()
		_, err := h.Update(admin, "nope", usersapimodels.UpdateUser{})
		require.True(t, errors.Is(err, models.ErrNotFound))
	})
}

func TestAvatar(t *testing.T) {
	t.Run("upload replaces old object", func(t *testing.T) {
		h, _ := newTestHandler()
		jane := models.Actor{UserID: "u1", Role: models.EmployeeRole}
		user, err := h.UploadAvatar(context.Background(), jane, "u1", []byte("first"), "image/png")
		require.NoError(t, err)
		require.Equal(t, AvatarURL("u1"), *user.AvatarURL)

		_, err = h.UploadAvatar(context.Background(), jane, "u1", []byte("second"), "image/png")
		require.NoError(t, err)
		require.Len(t, h.fileStorage.(*fakeFiles).objects, 1)

		data, contentType, err := h.GetAvatar(context.Background(), "u1")
		require.NoError(t, err)
		require.Equal(t, "second", string(data))
		require.Equal(t, "image/png", contentType)
	})
	t.Run("no avatar", func(t *testing.T) {
		h, _ := newTestHandler()
		_, _, err := h.GetAvatar(context.Background(), "u2")
		require.True(t, errors.Is(err, models.ErrNotFound))
	})
}
