package s3store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	lastPut *s3.PutObjectInput
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}}
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.lastPut = in
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestPutThenGet_WithPrefix(t *testing.T) {
	api := newFakeAPI()
	s := NewStore(api, "vault", "alice")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "password_list", []byte(`[]`)))
	assert.Contains(t, api.objects, "vault/alice/password_list")
	assert.Equal(t, "application/json", aws.ToString(api.lastPut.ContentType))
	assert.Equal(t, int64(2), aws.ToInt64(api.lastPut.ContentLength))

	v, ok, err := s.Get(ctx, "password_list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), v)
}

func TestGet_NoSuchKeyIsAbsent(t *testing.T) {
	s := NewStore(newFakeAPI(), "vault", "")

	v, ok, err := s.Get(context.Background(), "password_list")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestErrorsWrapped(t *testing.T) {
	api := newFakeAPI()
	api.getErr = errors.New("denied")
	api.putErr = errors.New("slow down")
	s := NewStore(api, "vault", "")
	ctx := context.Background()

	_, _, err := s.Get(ctx, "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get object[k]")

	err = s.Put(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put object[k]")
}

func TestOpen_ConfigErrorAndStaticCredentials(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err := Open(context.Background(), Options{Bucket: "b", Region: "us-east-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load aws config")

	var got awsconfig.LoadOptions
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			require.NoError(t, fn(&got))
		}
		return aws.Config{Region: got.Region}, nil
	}
	s, err := Open(context.Background(), Options{
		Bucket: "b", Region: "eu-west-1", AccessKey: "ak", SecretKey: "sk",
		BaseEndpoint: "http://127.0.0.1:9000", Prefix: "p",
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", got.Region)
	require.NotNil(t, got.Credentials)
	creds, err := got.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ak", creds.AccessKeyID)
	assert.Equal(t, "sk", creds.SecretAccessKey)
	assert.Equal(t, "b", s.bucket)
	assert.Equal(t, "p", s.prefix)
}
