package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		BodyLimit  int    `default:"10485760" env:"APP_BODY_LIMIT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hrms" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"hrms-secret" env:"JWT_SECRET"`
		JWTExpireInSec int64  `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Admin struct {
		Email    string `default:"admin@hrms.com" env:"ADMIN_EMAIL"`
		Password string `default:"admin123" env:"ADMIN_PASSWORD"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"hrms-avatars" env:"S3_BUCKET_NAME"`
	}
	Workers struct {
		AttendanceCloseIntervalMin int    `default:"60" env:"WORKER_ATTENDANCE_CLOSE_INTERVAL_MIN"`
		AbsenceSchedule            string `default:"55 23 * * *" env:"WORKER_ABSENCE_SCHEDULE"`
	}
}

// ClientConf is used by hrmsctl only.
var ClientConf *ClientConfiguration

type ClientConfiguration struct {
	BaseURL       string `default:"http://localhost:8080/api/v1" env:"HRMS_BASE_URL"`
	SessionDir    string `default:".hrms" env:"HRMS_SESSION_DIR"`
	TimeoutInSec  int    `default:"15" env:"HRMS_TIMEOUT_IN_SEC"`
	LogLevelDebug bool   `default:"false" env:"HRMS_DEBUG"`
}

func configFiles() []string {
	return []string{"config.yml"}
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, using environment variables")
	}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	loadDotEnv()
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}

func InitClientConfig() error {
	if ClientConf != nil {
		return nil
	}
	loadDotEnv()
	conf := new(ClientConfiguration)
	err := configor.New(&configor.Config{}).Load(conf, "hrmsctl.yml")
	if err != nil {
		return err
	}
	ClientConf = conf
	return nil
}
