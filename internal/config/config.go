package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"regbot/lib/validate"
	"sync"
)

const (
	RunModeWebhook = "webhook"
	RunModePolling = "polling"

	StoreMongo  = "mongo"
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

type Listen struct {
	BindIp string `yaml:"bind_ip" env-default:"0.0.0.0"`
	Port   string `yaml:"port" env-default:"8080"`
}

type Mongo struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	Host     string `yaml:"host" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env-default:"27017"`
	User     string `yaml:"user" env-default:"admin"`
	Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
	Database string `yaml:"database" env-default:"regbot"`
}

type MySql struct {
	Enabled  bool   `yaml:"enabled" env-default:"false"`
	HostName string `yaml:"hostname" env-default:"localhost"`
	UserName string `yaml:"username" env-default:"root"`
	Password string `yaml:"password" env:"MYSQL_PASSWORD" env-default:""`
	Database string `yaml:"database" env-default:"regbot"`
	Port     string `yaml:"port" env-default:"3306"`
}

// Bot is the configuration of one registration bot.
type Bot struct {
	Enabled         bool   `yaml:"enabled" env-default:"false"`
	Token           string `yaml:"token" env-default:""`
	AdminId         int64  `yaml:"admin_id" env-default:"0"`
	ChannelId       int64  `yaml:"channel_id" env-default:"0"`
	ChannelUsername string `yaml:"channel_username" env-default:""`
	InstagramLink   string `yaml:"instagram_link" env-default:""`
	YouTubeLink     string `yaml:"youtube_link" env-default:""`
}

type Bots struct {
	General     Bot `yaml:"general" env-prefix:"GENERAL_"`
	StudyCenter Bot `yaml:"study_center" env-prefix:"STUDY_CENTER_"`
}

type Broadcast struct {
	SessionTTLMin int `yaml:"session_ttl_min" env-default:"10" validate:"min=1"`
}

type Export struct {
	BaseURL string `yaml:"base_url" env-default:""`
}

type Config struct {
	Env       string    `yaml:"env" env-default:"local" validate:"oneof=local dev prod"`
	RunMode   string    `yaml:"run_mode" env-default:"webhook" validate:"oneof=webhook polling"`
	Store     string    `yaml:"store" env-default:"memory" validate:"oneof=mongo mysql memory"`
	Listen    Listen    `yaml:"listen"`
	Mongo     Mongo     `yaml:"mongo"`
	MySql     MySql     `yaml:"mysql"`
	Bots      Bots      `yaml:"bots"`
	Broadcast Broadcast `yaml:"broadcast"`
	Export    Export    `yaml:"export"`
}

// Validate checks the values cleanenv cannot express as defaults.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Store == StoreMongo && !c.Mongo.Enabled {
		return fmt.Errorf("store is mongo, but mongo is not enabled")
	}
	if c.Store == StoreMySQL && !c.MySql.Enabled {
		return fmt.Errorf("store is mysql, but mysql is not enabled")
	}
	for name, bot := range map[string]Bot{"general": c.Bots.General, "study_center": c.Bots.StudyCenter} {
		if bot.Enabled && bot.Token == "" {
			return fmt.Errorf("bot %s is enabled without a token", name)
		}
	}
	return nil
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("config: %s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
		if err = instance.Validate(); err != nil {
			instance = nil
			log.Fatal(fmt.Errorf("config: %w", err))
		}
	})
	return instance
}
