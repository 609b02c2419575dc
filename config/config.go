package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	NotifyTo string `yaml:"notify_to" json:"notify_to"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Smtp     SmtpConfig   `yaml:"smtp" json:"smtp"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "petshop",
		Location: "Asia/Bangkok",
		Workdir:  "/var/petshop",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-petshop-0cc248a4",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "petshop",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Smtp: SmtpConfig{
		Host: "",
		Port: 587,
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/petshop/petshop.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

// LoadConfig reads the YAML configuration file and applies
// environment variable overrides.
func LoadConfig(cfile string) *AppConfig {
	// parse config file
	cfg := new(AppConfig)
	if cfile == "" {
		cfile = "petshop.yml"
	}
	if _, err := os.Stat(cfile); os.IsNotExist(err) {
		cfg = DefaultAppConfig
	} else {
		data, err := os.ReadFile(cfile)
		if err != nil {
			panic(err)
		}
		err = yaml.Unmarshal(data, cfg)
		if err != nil {
			panic(err)
		}
	}

	setEnvValue("PETSHOP_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("PETSHOP_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("PETSHOP_WEB_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvValue("PETSHOP_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("PETSHOP_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("PETSHOP_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("PETSHOP_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("PETSHOP_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvValue("PETSHOP_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("PETSHOP_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })

	return cfg
}
