package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig     `mapstructure:"app"`
	Storage       StorageConfig `mapstructure:"storage"`
	Databases     []string      `mapstructure:"databases"`
	Backup        BackupConfig  `mapstructure:"backup"`
	Notifications Notifications `mapstructure:"notifications"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type StorageConfig struct {
	Provider string       `mapstructure:"provider"`
	S3       S3Config     `mapstructure:"s3"`
	GDrive   GDriveConfig `mapstructure:"gdrive"`
}

type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type GDriveConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`
}

type BackupConfig struct {
	Schedule      string `mapstructure:"schedule"`
	RunOnStart    bool   `mapstructure:"run_on_start"`
	RetentionDays int    `mapstructure:"retention_days"`
	ScratchDir    string `mapstructure:"scratch_dir"`
}

type Notifications struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// retention_days deliberately has no default: an unset window means
	// the sweep is disabled, never a silent deletion policy.
	v.SetDefault("app.name", "custodia")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("backup.scratch_dir", os.TempDir())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Provider {
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required")
		}
	case "gdrive":
		if c.Storage.GDrive.CredentialsFile == "" {
			return fmt.Errorf("storage.gdrive.credentials_file is required")
		}
		if c.Storage.GDrive.FolderID == "" {
			return fmt.Errorf("storage.gdrive.folder_id is required")
		}
	default:
		return fmt.Errorf("unknown storage provider: %q", c.Storage.Provider)
	}

	for i, uri := range c.Databases {
		if uri == "" {
			return fmt.Errorf("databases[%d]: connection uri is empty", i)
		}
	}

	if c.Backup.RetentionDays < 0 {
		return fmt.Errorf("backup.retention_days must not be negative")
	}

	if c.Notifications.Telegram.Enabled && c.Notifications.Telegram.BotToken == "" {
		return fmt.Errorf("notifications.telegram.bot_token is required when enabled")
	}

	return nil
}
