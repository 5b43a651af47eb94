package configs

import (
	"fmt"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sharikirostov/balloon-store/app/utils/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector picks the GORM driver named by DB_DRIVER.
func Dialector(env ENV) (gorm.Dialector, error) {
	switch env.DBDriver {
	case "", "mysql":
		cfg := mysqldriver.NewConfig()
		cfg.User = env.DBUser
		cfg.Passwd = env.DBPassword
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(env.DBHost, env.DBPort)
		cfg.DBName = env.DBName
		cfg.ParseTime = true
		cfg.Loc = time.Local
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.New(mysql.Config{DSNConfig: cfg}), nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			env.DBHost,
			env.DBUser,
			env.DBPassword,
			env.DBName,
			env.DBPort,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
}

func OpenConnection(env ENV) (*gorm.DB, error) {
	log := logger.GetLogger()

	dialector, err := Dialector(env)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:         sqlLogger(env),
		TranslateError: true,
	}

	maxRetries := 10
	retryDelay := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		log.Info("connecting to database",
			zap.String("driver", env.DBDriver),
			zap.String("host", env.DBHost),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
		)
		db, err := gorm.Open(dialector, gormCfg)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					log.Info("database connection established")
					return db, nil
				}
			}
			log.Warn("failed to ping database", zap.Error(pingErr), zap.Duration("retry_in", retryDelay))
		} else {
			log.Warn("failed to open database connection", zap.Error(err), zap.Duration("retry_in", retryDelay))
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the %s database at %s after %d retries", env.DBDriver, env.DBHost, maxRetries)
}

// sqlLogger routes GORM statements through the application zap logger.
func sqlLogger(env ENV) gormlogger.Interface {
	level := gormlogger.Warn
	if env.IsDevelopment() {
		level = gormlogger.Info
	}
	return gormlogger.New(zap.NewStdLog(logger.GetLogger().Named("gorm")), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
