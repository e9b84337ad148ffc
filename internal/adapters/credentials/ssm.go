package credentials

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// SSMAPI defines the subset of the SSM client used by SSMStore, enabling mock
// injection for testing.
type SSMAPI interface {
	PutParameter(ctx context.Context, params *ssm.PutParameterInput, optFns ...func(*ssm.Options)) (*ssm.PutParameterOutput, error)
	AddTagsToResource(ctx context.Context, params *ssm.AddTagsToResourceInput, optFns ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error)
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
	DeleteParameter(ctx context.Context, params *ssm.DeleteParameterInput, optFns ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error)
	DescribeParameters(ctx context.Context, params *ssm.DescribeParametersInput, optFns ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error)
}

// SSMStore implements ParameterStore on AWS Systems Manager Parameter Store.
type SSMStore struct {
	client SSMAPI
}

// NewSSMStore wraps an existing SSM client.
func NewSSMStore(client SSMAPI) *SSMStore {
	return &SSMStore{client: client}
}

// NewSSMStoreForRegion loads the default AWS configuration for region and
// builds an SSM-backed store.
func NewSSMStoreForRegion(ctx context.Context, region string) (*SSMStore, error) {
	if region == "" {
		return nil, fmt.Errorf("%w: region is required for ssm", ErrStoreUnavailable)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSSMStore(ssm.NewFromConfig(cfg)), nil
}

// Put implements ParameterStore.Put. SSM rejects tags together with
// Overwrite, so tags are applied in a second call.
func (s *SSMStore) Put(ctx context.Context, p *Parameter) error {
	if p == nil || p.Name == "" {
		return NewStoreError("Put", "", ErrInvalidKey)
	}

	paramType := types.ParameterTypeString
	if p.Secure {
		paramType = types.ParameterTypeSecureString
	}

	input := &ssm.PutParameterInput{
		Name:      aws.String(p.Name),
		Value:     aws.String(p.Value),
		Type:      paramType,
		Overwrite: aws.Bool(true),
	}
	if p.Description != "" {
		input.Description = aws.String(p.Description)
	}

	if _, err := s.client.PutParameter(ctx, input); err != nil {
		return NewStoreError("Put", p.Name, err)
	}

	if len(p.Tags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(p.Tags))
	for k := range p.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(p.Tags[k])})
	}

	_, err := s.client.AddTagsToResource(ctx, &ssm.AddTagsToResourceInput{
		ResourceType: types.ResourceTypeForTaggingParameter,
		ResourceId:   aws.String(p.Name),
		Tags:         tags,
	})
	if err != nil {
		return NewStoreError("Tag", p.Name, err)
	}
	return nil
}

// Get implements ParameterStore.Get
func (s *SSMStore) Get(ctx context.Context, name string, decrypt bool) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(decrypt),
	})
	if err != nil {
		return "", NewStoreError("Get", name, translateSSMError(err))
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", NewStoreError("Get", name, ErrNotFound)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// Delete implements ParameterStore.Delete
func (s *SSMStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteParameter(ctx, &ssm.DeleteParameterInput{Name: aws.String(name)})
	if err != nil {
		return NewStoreError("Delete", name, translateSSMError(err))
	}
	return nil
}

// ListByPrefix implements ParameterStore.ListByPrefix, following every page of
// DescribeParameters with a BeginsWith name filter.
func (s *SSMStore) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	paginator := ssm.NewDescribeParametersPaginator(s.client, &ssm.DescribeParametersInput{
		ParameterFilters: []types.ParameterStringFilter{
			{
				Key:    aws.String("Name"),
				Option: aws.String("BeginsWith"),
				Values: []string{prefix},
			},
		},
	})

	names := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return names, NewStoreError("ListByPrefix", prefix, err)
		}
		for _, p := range page.Parameters {
			if p.Name != nil {
				names = append(names, *p.Name)
			}
		}
	}
	return names, nil
}

func translateSSMError(err error) error {
	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, notFound.ErrorMessage())
	}
	return err
}
