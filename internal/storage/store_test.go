package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutObject struct {
	mu    sync.Mutex
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	client := &fakePutObject{}
	store := NewS3StoreWithClient(client)

	err := store.Put(context.Background(), "s3://fx-bucket/rates/fx.csv", []byte("date\n"))
	require.NoError(t, err)

	assert.Equal(t, "fx-bucket", aws.ToString(client.input.Bucket))
	assert.Equal(t, "rates/fx.csv", aws.ToString(client.input.Key))
	assert.Equal(t, "text/csv", aws.ToString(client.input.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(client.input.ContentLength))
	assert.Equal(t, "date\n", string(client.body))
}

func TestS3Store_PutErrors(t *testing.T) {
	client := &fakePutObject{err: errors.New("access denied")}
	store := NewS3StoreWithClient(client)

	err := store.Put(context.Background(), "s3://b/k.csv", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	err = store.Put(context.Background(), "file:///tmp/k.csv", []byte("x"))
	assert.Error(t, err)
}

func TestS3Store_CustomEndpoint(t *testing.T) {
	var (
		gotMethod, gotPath, gotType string
		gotBody                     []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(context.Background(), S3Config{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "eu-west-1",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "s3://fx-bucket/fx.csv", []byte("a,b\n")))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/fx-bucket/fx.csv", gotPath)
	assert.Equal(t, "text/csv", gotType)
	assert.Equal(t, "a,b\n", string(gotBody))
}

func TestNewS3Store_RequiresKeys(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestFileStore_Put(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "fx.csv")
	store := NewFileStore()

	require.NoError(t, store.Put(context.Background(), "file://"+path, []byte("one")))
	require.NoError(t, store.Put(context.Background(), "file://"+path, []byte("two")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewFileStore().Put(ctx, "file://"+filepath.Join(t.TempDir(), "x.csv"), []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Put(context.Background(), "s3://b/a.csv", []byte("a")))
	require.NoError(t, m.Put(context.Background(), "s3://b/b.csv", []byte("b")))

	got, ok := m.Get("s3://b/a.csv")
	require.True(t, ok)
	assert.Equal(t, "a", string(got))
	assert.Equal(t, []string{"s3://b/a.csv", "s3://b/b.csv"}, m.Puts())
}

func TestRouter(t *testing.T) {
	mem := NewMemoryStore()
	r := NewRouter()
	r.Register(SchemeS3, mem)

	require.NoError(t, r.Put(context.Background(), "s3://b/k.csv", []byte("x")))
	_, ok := mem.Get("s3://b/k.csv")
	assert.True(t, ok)

	err := r.Put(context.Background(), "gs://b/k.csv", []byte("x"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	r, err := New(context.Background(), "file:///tmp/fx", S3Config{})
	require.NoError(t, err)
	assert.NotNil(t, r)

	_, err = New(context.Background(), "s3://bucket/fx.csv", S3Config{})
	assert.Error(t, err, "s3 needs credentials")

	_, err = New(context.Background(), "ftp://host/fx.csv", S3Config{})
	assert.Error(t, err)
}
