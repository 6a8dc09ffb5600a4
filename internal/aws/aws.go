package awsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/idcard-hub/idcard-menu-services/internal/appconfig"
)

// SecretsGetter is the part of the Secrets Manager client used to read the
// database credentials.
type SecretsGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadAWSConfig initializes and returns an AWS SDK configuration.
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// NewSecretsManagerClient initializes the AWS Secrets Manager client.
func NewSecretsManagerClient(cfg aws.Config) *secretsmanager.Client {
	return secretsmanager.NewFromConfig(cfg)
}

// rdsSecret is the JSON layout RDS uses for managed database credentials.
type rdsSecret struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Host     string      `json:"host"`
	Port     json.Number `json:"port"`
	DBName   string      `json:"dbname"`
	SSLMode  string      `json:"sslmode"`
}

// ResolveDSN returns the configured connection string, or reads it from the
// named secret when none is set. The secret holds either a DSN or RDS-style
// JSON credentials.
func ResolveDSN(ctx context.Context, client SecretsGetter, cfg appconfig.DatabaseConfig) (string, error) {
	if cfg.Source != "" {
		return cfg.Source, nil
	}
	if cfg.SecretName == "" {
		return "", errors.New("database source and secret name are both empty")
	}

	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.SecretName),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("failed to read secret %s (%s): %w", cfg.SecretName, apiErr.ErrorCode(), err)
		}
		return "", fmt.Errorf("failed to read secret %s: %w", cfg.SecretName, err)
	}

	value := strings.TrimSpace(aws.ToString(out.SecretString))
	if value == "" {
		return "", fmt.Errorf("secret %s has no string value", cfg.SecretName)
	}

	if !strings.HasPrefix(value, "{") {
		return value, nil
	}

	var secret rdsSecret
	if err := json.Unmarshal([]byte(value), &secret); err != nil {
		return "", fmt.Errorf("failed to decode secret %s: %w", cfg.SecretName, err)
	}
	if secret.Host == "" || secret.Username == "" {
		return "", fmt.Errorf("secret %s is missing host or username", cfg.SecretName)
	}

	host := secret.Host
	if secret.Port != "" {
		host = host + ":" + secret.Port.String()
	}
	sslMode := secret.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(secret.Username, secret.Password),
		Host:     host,
		Path:     "/" + secret.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return dsn.String(), nil
}
