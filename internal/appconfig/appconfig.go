package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v2"
)

const (
	DefaultBasePath    = "/api"
	DefaultDocsPath    = "/docs"
	DefaultMetricsPath = "/metrics"
	DefaultAdminRole   = "menu_admin"
	DefaultDriver      = "postgres"
)

// Config holds all configuration details
type Config struct {
	Host        string         `yaml:"host"`
	BasePath    string         `yaml:"basePath"`
	DocsPath    string         `yaml:"docsPath"`
	MetricsPath string         `yaml:"metricsPath"`
	Auth        AuthConfig     `yaml:"auth"`
	Database    DatabaseConfig `yaml:"database"`
	Pulsar      PulsarConfig   `yaml:"pulsar"`
	AWS         AWSConfig      `yaml:"aws"`
	Tunnel      TunnelConfig   `yaml:"tunnel"`
}

// AuthConfig names the realm role allowed to change menus
type AuthConfig struct {
	AdminRole string `yaml:"adminRole"`
}

// DatabaseConfig defines the database connection details. When Source is
// empty the DSN is read from the Secrets Manager secret named by SecretName.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Source     string `yaml:"source"`
	SecretName string `yaml:"secretName"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// TunnelConfig describes an optional SSH tunnel used to reach the database
// through a bastion host.
type TunnelConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SSHUser        string `yaml:"sshUser"`
	SSHHost        string `yaml:"sshHost"`
	SSHPort        string `yaml:"sshPort"`
	RemoteHost     string `yaml:"remoteHost"`
	RemotePort     string `yaml:"remotePort"`
	LocalPort      string `yaml:"localPort"`
	PrivateKeyPath string `yaml:"privateKeyPath"`
}

// LoadConfig loads and parses the configuration from a given file path. The
// file is rendered as a template over the process environment first, so
// values like {{ .DATABASE_PASSWORD }} are substituted.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	tmpl, err := template.New("config").Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, templateName(path), loadEnvVars()); err != nil {
		return nil, fmt.Errorf("error executing config file template: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.DocsPath == "" {
		c.DocsPath = DefaultDocsPath
	}
	if c.MetricsPath == "" {
		c.MetricsPath = DefaultMetricsPath
	}
	if c.Auth.AdminRole == "" {
		c.Auth.AdminRole = DefaultAdminRole
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Tunnel.SSHPort == "" {
		c.Tunnel.SSHPort = "22"
	}
}

// templateName mirrors how ParseFiles names templates after the file base name.
func templateName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
