package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Artifacts   ArtifactsConfig
	Training    TrainingConfig
	Prediction  PredictionConfig
	Database    DatabaseConfig
	ObjectStore ObjectStoreConfig
	Logger      LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// ArtifactsConfig locates the artifact store and sets lifecycle policy.
type ArtifactsConfig struct {
	ModelsDir      string
	PredictionsDir string
	KeepCount      int
	MinAccuracy    float64
}

// TrainingConfig selects the training data source. When DataPath and
// DataURL are both empty a seeded synthetic dataset is generated.
type TrainingConfig struct {
	DataPath string
	DataURL  string
	Samples  int
	Features int
	Classes  int
	Seed     int64
}

type PredictionConfig struct {
	DataPath string
	DataURL  string
	Samples  int
	Seed     int64
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type ObjectStoreConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	Bucket    string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("ARTIFACTS_MODELS_DIR", "/app/models")
	v.SetDefault("ARTIFACTS_PREDICTIONS_DIR", "/app/predictions")
	v.SetDefault("ARTIFACTS_KEEP_COUNT", 5)
	v.SetDefault("ARTIFACTS_MIN_ACCURACY", 0.5)

	v.SetDefault("TRAINING_DATA_PATH", "")
	v.SetDefault("TRAINING_DATA_URL", "")
	v.SetDefault("TRAINING_SAMPLES", 1000)
	v.SetDefault("TRAINING_FEATURES", 20)
	v.SetDefault("TRAINING_CLASSES", 2)
	v.SetDefault("TRAINING_SEED", 42)

	v.SetDefault("PREDICTION_DATA_PATH", "")
	v.SetDefault("PREDICTION_DATA_URL", "")
	v.SetDefault("PREDICTION_SAMPLES", 100)
	v.SetDefault("PREDICTION_SEED", 42)

	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "mlpipeline")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "mlpipeline")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("OBJECTSTORE_ENABLED", false)
	v.SetDefault("OBJECTSTORE_ENDPOINT", "localhost:9000")
	v.SetDefault("OBJECTSTORE_ACCESS_KEY", "")
	v.SetDefault("OBJECTSTORE_SECRET_KEY", "")
	v.SetDefault("OBJECTSTORE_REGION", "us-east-1")
	v.SetDefault("OBJECTSTORE_USE_SSL", false)
	v.SetDefault("OBJECTSTORE_BUCKET", "ml-artifacts")

	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "text")

	// Env
	v.AutomaticEnv()

	lifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Artifacts: ArtifactsConfig{
			ModelsDir:      v.GetString("ARTIFACTS_MODELS_DIR"),
			PredictionsDir: v.GetString("ARTIFACTS_PREDICTIONS_DIR"),
			KeepCount:      v.GetInt("ARTIFACTS_KEEP_COUNT"),
			MinAccuracy:    v.GetFloat64("ARTIFACTS_MIN_ACCURACY"),
		},
		Training: TrainingConfig{
			DataPath: v.GetString("TRAINING_DATA_PATH"),
			DataURL:  v.GetString("TRAINING_DATA_URL"),
			Samples:  v.GetInt("TRAINING_SAMPLES"),
			Features: v.GetInt("TRAINING_FEATURES"),
			Classes:  v.GetInt("TRAINING_CLASSES"),
			Seed:     v.GetInt64("TRAINING_SEED"),
		},
		Prediction: PredictionConfig{
			DataPath: v.GetString("PREDICTION_DATA_PATH"),
			DataURL:  v.GetString("PREDICTION_DATA_URL"),
			Samples:  v.GetInt("PREDICTION_SAMPLES"),
			Seed:     v.GetInt64("PREDICTION_SEED"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DATABASE_ENABLED"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		ObjectStore: ObjectStoreConfig{
			Enabled:   v.GetBool("OBJECTSTORE_ENABLED"),
			Endpoint:  v.GetString("OBJECTSTORE_ENDPOINT"),
			AccessKey: v.GetString("OBJECTSTORE_ACCESS_KEY"),
			SecretKey: v.GetString("OBJECTSTORE_SECRET_KEY"),
			Region:    v.GetString("OBJECTSTORE_REGION"),
			UseSSL:    v.GetBool("OBJECTSTORE_USE_SSL"),
			Bucket:    v.GetString("OBJECTSTORE_BUCKET"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
