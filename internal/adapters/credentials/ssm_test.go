package credentials

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSSM is a minimal in-memory SSMAPI that pages DescribeParameters.
type fakeSSM struct {
	values   map[string]string
	types    map[string]types.ParameterType
	tags     map[string][]types.Tag
	pageSize int
	putErr   error
	decrypts []bool
}

func newFakeSSM() *fakeSSM {
	return &fakeSSM{
		values:   map[string]string{},
		types:    map[string]types.ParameterType{},
		tags:     map[string][]types.Tag{},
		pageSize: 2,
	}
}

func (f *fakeSSM) PutParameter(ctx context.Context, in *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	if len(in.Tags) > 0 && aws.ToBool(in.Overwrite) {
		return nil, errors.New("ValidationException: tags and overwrite can't be used together")
	}
	f.values[aws.ToString(in.Name)] = aws.ToString(in.Value)
	f.types[aws.ToString(in.Name)] = in.Type
	return &ssm.PutParameterOutput{}, nil
}

func (f *fakeSSM) AddTagsToResource(ctx context.Context, in *ssm.AddTagsToResourceInput, _ ...func(*ssm.Options)) (*ssm.AddTagsToResourceOutput, error) {
	f.tags[aws.ToString(in.ResourceId)] = in.Tags
	return &ssm.AddTagsToResourceOutput{}, nil
}

func (f *fakeSSM) GetParameter(ctx context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.decrypts = append(f.decrypts, aws.ToBool(in.WithDecryption))
	v, ok := f.values[aws.ToString(in.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("parameter " + aws.ToString(in.Name) + " not found")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: in.Name, Value: aws.String(v)}}, nil
}

func (f *fakeSSM) DeleteParameter(ctx context.Context, in *ssm.DeleteParameterInput, _ ...func(*ssm.Options)) (*ssm.DeleteParameterOutput, error) {
	name := aws.ToString(in.Name)
	if _, ok := f.values[name]; !ok {
		return nil, &types.ParameterNotFound{Message: aws.String(name)}
	}
	delete(f.values, name)
	return &ssm.DeleteParameterOutput{}, nil
}

func (f *fakeSSM) DescribeParameters(ctx context.Context, in *ssm.DescribeParametersInput, _ ...func(*ssm.Options)) (*ssm.DescribeParametersOutput, error) {
	prefix := in.ParameterFilters[0].Values[0]
	var names []string
	for name := range f.values {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	start := 0
	if in.NextToken != nil {
		start, _ = strconv.Atoi(*in.NextToken)
	}
	end := start + f.pageSize
	if end > len(names) {
		end = len(names)
	}

	out := &ssm.DescribeParametersOutput{}
	for _, n := range names[start:end] {
		out.Parameters = append(out.Parameters, types.ParameterMetadata{Name: aws.String(n)})
	}
	if end < len(names) {
		out.NextToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func TestSSMStore_PutUsesSecureStringAndTags(t *testing.T) {
	fake := newFakeSSM()
	store := NewStore(NewSSMStore(fake), "/shopify/clients")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testShop, FieldAccessToken, "shpat", true))
	require.NoError(t, store.Put(ctx, testShop, FieldScopes, "read_products", false))

	tokenKey := store.Key(testShop, FieldAccessToken)
	assert.Equal(t, types.ParameterTypeSecureString, fake.types[tokenKey])
	assert.Equal(t, types.ParameterTypeString, fake.types[store.Key(testShop, FieldScopes)])
	require.Len(t, fake.tags[tokenKey], 2)
	assert.Equal(t, "App", aws.ToString(fake.tags[tokenKey][0].Key))
	assert.Equal(t, testShop, aws.ToString(fake.tags[tokenKey][1].Value))
}

func TestSSMStore_GetRequestsDecryption(t *testing.T) {
	fake := newFakeSSM()
	store := NewStore(NewSSMStore(fake), "")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testShop, FieldAccessToken, "shpat", true))
	got, err := store.Get(ctx, testShop, FieldAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "shpat", got)
	assert.Equal(t, []bool{true}, fake.decrypts)

	_, err = store.Get(ctx, "missing.myshopify.com", FieldAccessToken)
	assert.True(t, IsNotFound(err))
}

func TestSSMStore_DeleteAllFollowsPages(t *testing.T) {
	fake := newFakeSSM()
	store := NewStore(NewSSMStore(fake), "")
	ctx := context.Background()

	require.NoError(t, store.SaveCredential(ctx, testShop, &Credential{AccessToken: "a", Scopes: "b"}))
	require.NoError(t, store.Put(ctx, testShop, "extra", "c", false))

	deleted, err := store.DeleteAll(ctx, testShop)
	require.NoError(t, err)
	assert.Len(t, deleted, 4)
	assert.Empty(t, fake.values)
}

func TestSSMStore_PutError(t *testing.T) {
	fake := newFakeSSM()
	fake.putErr = errors.New("AccessDenied")
	store := NewStore(NewSSMStore(fake), "")

	err := store.Put(context.Background(), testShop, FieldScopes, "x", false)
	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "Put", storeErr.Op)
}
