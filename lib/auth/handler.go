package authhandler

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	usersstore "hrms-backend/lib/users/store"
	authutils "hrms-backend/lib/utils/auth-utils"
	"hrms-backend/lib/utils/helpers"
	initchecker "hrms-backend/lib/utils/init-checker"
	"hrms-backend/models"
	authapimodels "hrms-backend/models/api/auth"
	usersapimodels "hrms-backend/models/api/users"
	dbmodels "hrms-backend/models/db"
)

type Provider interface {
	Login(request authapimodels.LoginRequest) (authapimodels.LoginResponse, error)
	Register(actor *models.Actor, request authapimodels.RegisterRequest) (usersapimodels.User, error)
	Me(userID string) (usersapimodels.User, error)
	InitAdmin(email, password string) (created bool, err error)
}

var Instance Provider

type tokenFunc func(userID, name string, role models.UserRole) (string, error)

func NewHandler() {
	instance := impl{
		userStore:  usersstore.NewInstance(db.DB),
		issueToken: authutils.GetToken,
		now:        time.Now,
	}
	initchecker.CheckInit("userStore", instance.userStore)
	Instance = instance
}

type impl struct {
	userStore  usersstore.Provider
	issueToken tokenFunc
	now        func() time.Time
}

func (i impl) Login(request authapimodels.LoginRequest) (authapimodels.LoginResponse, error) {
	logger := log.WithField("email", request.Email)
	rec, err := i.userStore.FindByEmail(request.Email)
	if err != nil {
		logger.WithError(err).Error("user lookup failed")
		return authapimodels.LoginResponse{}, err
	}
	if rec == nil || !authutils.CheckPassword(request.Password, rec.Password) {
		logger.Info("login rejected")
		return authapimodels.LoginResponse{}, models.ErrInvalidCredentials
	}
	token, err := i.issueToken(rec.ID, rec.Name, rec.Role)
	if err != nil {
		logger.WithError(err).Error("token issue failed")
		return authapimodels.LoginResponse{}, errors.Wrap(err, "token issue failed")
	}
	return authapimodels.LoginResponse{
		User:  rec.ToModel(),
		Token: token,
	}, nil
}

func (i impl) Register(actor *models.Actor, request authapimodels.RegisterRequest) (usersapimodels.User, error) {
	role := request.Role
	if role == "" {
		role = models.EmployeeRole
	}
	if role.IsAdmin() && (actor == nil || !actor.Role.IsAdmin()) {
		return usersapimodels.User{}, errors.Wrap(models.ErrForbidden, "only an admin can create admin accounts")
	}
	exist, err := i.userStore.ExistByEmail(request.Email)
	if err != nil {
		log.
			WithField("email", request.Email).
			WithError(err).
			Error("existing user check failed")
		return usersapimodels.User{}, err
	}
	if exist {
		return usersapimodels.User{}, errors.Wrap(models.ErrBadRequest, "email already exists")
	}
	hash, err := authutils.HashPassword(request.Password)
	if err != nil {
		return usersapimodels.User{}, errors.Wrap(err, "password hashing failed")
	}
	joinDate := request.JoinDate
	if joinDate == "" {
		joinDate = helpers.FormatDate(i.now())
	}
	rec := dbmodels.User{
		BaseModel:  dbmodels.BaseModel{ID: request.ID},
		Name:       strings.TrimSpace(request.Name),
		Email:      request.Email,
		Password:   hash,
		Role:       role,
		Position:   request.Position,
		Department: request.Department,
		JoinDate:   joinDate,
		Phone:      request.Phone,
		Address:    request.Address,
		Salary:     request.Salary,
		AvatarURL:  request.AvatarURL,
	}
	id, err := i.userStore.Create(rec)
	if err != nil {
		log.
			WithField("email", request.Email).
			WithError(err).
			Error("user create failed")
		return usersapimodels.User{}, err
	}
	rec.ID = id
	return rec.ToModel(), nil
}

func (i impl) Me(userID string) (usersapimodels.User, error) {
	rec, err := i.userStore.GetByID(userID)
	if err != nil {
		return usersapimodels.User{}, err
	}
	if rec == nil {
		return usersapimodels.User{}, errors.Wrap(models.ErrNotFound, "user not found")
	}
	return rec.ToModel(), nil
}

func (i impl) InitAdmin(email, password string) (bool, error) {
	exist, err := i.userStore.ExistByEmail(email)
	if err != nil {
		return false, err
	}
	if exist {
		return false, nil
	}
	hash, err := authutils.HashPassword(password)
	if err != nil {
		return false, errors.Wrap(err, "password hashing failed")
	}
	salary := 100000.0
	_, err = i.userStore.Create(dbmodels.User{
		Name:       "Admin User",
		Email:      email,
		Password:   hash,
		Role:       models.AdminRole,
		Position:   "System Administrator",
		Department: "IT",
		JoinDate:   "2024-01-01",
		Salary:     &salary,
	})
	if err != nil {
		log.WithError(err).Error("default admin create failed")
		return false, err
	}
	log.WithField("email", email).Info("default admin created")
	return true, nil
}
