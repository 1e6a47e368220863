package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

var (
	ErrConfigMissing = errors.New("configuration missing")
	ErrConfigInvalid = errors.New("configuration invalid")
)

// SecretKeys are the environment keys that may be sourced from SSM Parameter Store.
var SecretKeys = []string{
	"DESCOPE_MANAGEMENT_KEY",
	"JWT_SECRET",
	"DB_PASSWORD",
	"DATABASE_URL",
	"SENTRY_DSN",
}

// ParameterGetter is the subset of the SSM client used to read secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadSecrets fills every SecretKeys entry missing from c with the SSM parameter
// stored at "<SSM_PARAMETER_PREFIX>/<KEY>". Values already present in c win.
// A parameter that does not exist is skipped; any other SSM failure is returned.
func LoadSecrets(ctx context.Context, c map[string]string, getter ParameterGetter) error {
	prefix := strings.TrimSuffix(GetString(c, "SSM_PARAMETER_PREFIX", ""), "/")
	if prefix == "" {
		return nil
	}

	for _, key := range SecretKeys {
		if GetString(c, key, "") != "" {
			continue
		}

		out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(prefix + "/" + key),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			var notFound *ssmtypes.ParameterNotFound
			if errors.As(err, &notFound) {
				continue
			}
			return fmt.Errorf("read ssm parameter %s: %w", key, err)
		}

		if out.Parameter != nil && out.Parameter.Value != nil {
			c[key] = aws.ToString(out.Parameter.Value)
		}
	}
	return nil
}
