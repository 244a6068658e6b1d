package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// AuthSecret is the sign-in credential stored in AWS Secrets Manager.
type AuthSecret struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SecretGetter is the subset of the Secrets Manager API used here.
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerClient wraps AWS Secrets Manager operations.
type SecretsManagerClient struct {
	client SecretGetter
}

// NewSecretsManagerClient loads AWS credentials from the default chain
// (execution role in Lambda, profile or env locally).
func NewSecretsManagerClient(ctx context.Context) (*SecretsManagerClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SecretsManagerClient{
		client: secretsmanager.NewFromConfig(cfg),
	}, nil
}

// NewSecretsManagerClientFrom wraps an existing client.
func NewSecretsManagerClientFrom(client SecretGetter) *SecretsManagerClient {
	return &SecretsManagerClient{client: client}
}

// GetAuthSecret fetches and parses sign-in credentials.
func (c *SecretsManagerClient) GetAuthSecret(ctx context.Context, secretName string) (*AuthSecret, error) {
	if secretName == "" {
		return nil, fmt.Errorf("secret name is empty")
	}

	output, err := c.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch secret %q from secrets manager: %w", secretName, err)
	}

	if output.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string value (binary secrets not supported)", secretName)
	}

	var secret AuthSecret
	if err := json.Unmarshal([]byte(*output.SecretString), &secret); err != nil {
		return nil, fmt.Errorf("parse secret %q as JSON: %w", secretName, err)
	}

	if secret.Email == "" {
		return nil, fmt.Errorf("secret %q missing required field: email", secretName)
	}
	if secret.Password == "" {
		return nil, fmt.Errorf("secret %q missing required field: password", secretName)
	}

	return &secret, nil
}

// ResolveCredentials fills Email and Password from Secrets Manager when a
// secret name is configured and no access token is set.
func (c *AuthConfig) ResolveCredentials(ctx context.Context, sm *SecretsManagerClient) error {
	if c.AccessToken != "" || c.SecretName == "" {
		return nil
	}

	secret, err := sm.GetAuthSecret(ctx, c.SecretName)
	if err != nil {
		return err
	}

	c.Email = secret.Email
	c.Password = secret.Password
	return nil
}
