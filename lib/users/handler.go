package usershandler

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	filestorage "hrms-backend/lib/file-storage"
	usersstore "hrms-backend/lib/users/store"
	authutils "hrms-backend/lib/utils/auth-utils"
	initchecker "hrms-backend/lib/utils/init-checker"
	"hrms-backend/models"
	usersapimodels "hrms-backend/models/api/users"
)

type Provider interface {
	List() ([]usersapimodels.User, error)
	GetByID(userID string) (usersapimodels.User, error)
	Update(actor models.Actor, userID string, request usersapimodels.UpdateUser) (usersapimodels.User, error)
	Delete(userID string) error
	UploadAvatar(ctx context.Context, actor models.Actor, userID string, data []byte, contentType string) (usersapimodels.User, error)
	GetAvatar(ctx context.Context, userID string) (data []byte, contentType string, err error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		userStore:   usersstore.NewInstance(db.DB),
		fileStorage: filestorage.Instance,
	}
	initchecker.CheckInit(
		"userStore", instance.userStore,
		"fileStorage", instance.fileStorage,
	)
	Instance = instance
}

type impl struct {
	userStore   usersstore.Provider
	fileStorage filestorage.Provider
}

func (i impl) List() ([]usersapimodels.User, error) {
	list, err := i.userStore.List()
	if err != nil {
		log.WithError(err).Error("user list failed")
		return nil, err
	}
	result := make([]usersapimodels.User, 0, len(list))
	for _, rec := range list {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) GetByID(userID string) (usersapimodels.User, error) {
	rec, err := i.userStore.GetByID(userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("user lookup failed")
		return usersapimodels.User{}, err
	}
	if rec == nil {
		return usersapimodels.User{}, errors.Wrap(models.ErrNotFound, "user not found")
	}
	return rec.ToModel(), nil
}

func (i impl) Update(actor models.Actor, userID string, request usersapimodels.UpdateUser) (usersapimodels.User, error) {
	if !actor.CanAccess(userID) {
		return usersapimodels.User{}, errors.Wrap(models.ErrForbidden, "only own profile can be changed")
	}
	current, err := i.GetByID(userID)
	if err != nil {
		return usersapimodels.User{}, err
	}
	if !actor.Role.IsAdmin() {
		if request.Role != nil && *request.Role != current.Role {
			return usersapimodels.User{}, errors.Wrap(models.ErrForbidden, "role can be changed by admin only")
		}
		if request.Salary != nil && !sameSalary(request.Salary, current.Salary) {
			return usersapimodels.User{}, errors.Wrap(models.ErrForbidden, "salary can be changed by admin only")
		}
	}
	updMap, err := i.buildUpdateMap(userID, current, request)
	if err != nil {
		return usersapimodels.User{}, err
	}
	if len(updMap) > 0 {
		err = i.userStore.Update(userID, updMap)
		if err != nil {
			log.
				WithField("user_id", userID).
				WithField("fields", fmt.Sprintf("%v", mapKeys(updMap))).
				WithError(err).
				Error("user update failed")
			return usersapimodels.User{}, err
		}
	}
	return i.GetByID(userID)
}

func (i impl) buildUpdateMap(userID string, current usersapimodels.User, request usersapimodels.UpdateUser) (map[string]interface{}, error) {
	updMap := map[string]interface{}{}
	if request.Name != nil {
		updMap["name"] = strings.TrimSpace(*request.Name)
	}
	if request.Email != nil && *request.Email != current.Email {
		// the lookup ignores case, so a case-only change finds the user itself
		other, err := i.userStore.FindByEmail(*request.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != userID {
			return nil, errors.Wrap(models.ErrConflict, "email already exists")
		}
		updMap["email"] = *request.Email
	}
	if request.Role != nil {
		updMap["role"] = *request.Role
	}
	if request.Position != nil {
		updMap["position"] = *request.Position
	}
	if request.Department != nil {
		updMap["department"] = *request.Department
	}
	if request.JoinDate != nil {
		updMap["join_date"] = *request.JoinDate
	}
	if request.Phone != nil {
		updMap["phone"] = *request.Phone
	}
	if request.Address != nil {
		updMap["address"] = *request.Address
	}
	if request.Salary != nil {
		updMap["salary"] = *request.Salary
	}
	if request.AvatarURL != nil {
		updMap["avatar_url"] = *request.AvatarURL
	}
	if request.Password != nil && *request.Password != "" {
		hash, err := authutils.HashPassword(*request.Password)
		if err != nil {
			return nil, errors.Wrap(err, "password hashing failed")
		}
		updMap["password"] = hash
	}
	return updMap, nil
}

func (i impl) Delete(userID string) error {
	err := i.userStore.Delete(userID)
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("user delete failed")
		return err
	}
	return nil
}

func (i impl) UploadAvatar(ctx context.Context, actor models.Actor, userID string, data []byte, contentType string) (usersapimodels.User, error) {
	if !actor.CanAccess(userID) {
		return usersapimodels.User{}, errors.Wrap(models.ErrForbidden, "only own avatar can be changed")
	}
	rec, err := i.userStore.GetByID(userID)
	if err != nil {
		return usersapimodels.User{}, err
	}
	if rec == nil {
		return usersapimodels.User{}, errors.Wrap(models.ErrNotFound, "user not found")
	}
	objectName, err := i.fileStorage.UploadAvatar(ctx, userID, data, contentType)
	if err != nil {
		return usersapimodels.User{}, err
	}
	err = i.userStore.Update(userID, map[string]interface{}{
		"avatar_object": objectName,
		"avatar_url":    AvatarURL(userID),
	})
	if err != nil {
		return usersapimodels.User{}, err
	}
	if rec.AvatarObject != nil && *rec.AvatarObject != "" {
		if err := i.fileStorage.DeleteFile(ctx, *rec.AvatarObject); err != nil {
			log.
				WithField("user_id", userID).
				WithError(err).
				Warn("old avatar delete failed")
		}
	}
	return i.GetByID(userID)
}

func (i impl) GetAvatar(ctx context.Context, userID string) ([]byte, string, error) {
	rec, err := i.userStore.GetByID(userID)
	if err != nil {
		return nil, "", err
	}
	if rec == nil || rec.AvatarObject == nil || *rec.AvatarObject == "" {
		return nil, "", errors.Wrap(models.ErrNotFound, "avatar not found")
	}
	return i.fileStorage.GetFile(ctx, *rec.AvatarObject)
}

// AvatarURL is the API path the avatar is served from.
func AvatarURL(userID string) string {
	return fmt.Sprintf("/api/v1/users/%s/avatar", userID)
}

func sameSalary(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func mapKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
