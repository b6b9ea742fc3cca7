package cloud

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/skiff/internal/backend"
)

// fakeS3 serves a single bucket from memory, pageSize items per page.
type fakeS3 struct {
	bucket   string
	objects  map[string]string
	pageSize int
}

func (f *fakeS3) ListBuckets(ctx context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	return &s3.ListBucketsOutput{Buckets: []types.Bucket{
		{Name: aws.String("zeta")},
		{Name: aws.String(f.bucket)},
	}}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NoSuchBucket{Message: aws.String("no such bucket")}
	}
	prefix := aws.ToString(in.Prefix)
	delim := aws.ToString(in.Delimiter)

	type item struct {
		key    string
		prefix bool
	}
	var items []item
	seen := map[string]bool{}
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		rest := k[len(prefix):]
		if delim != "" {
			if i := strings.Index(rest, delim); i >= 0 {
				p := prefix + rest[:i+len(delim)]
				if !seen[p] {
					seen[p] = true
					items = append(items, item{key: p, prefix: true})
				}
				continue
			}
		}
		items = append(items, item{key: k})
	}

	start := 0
	if tok := aws.ToString(in.ContinuationToken); tok != "" {
		start, _ = strconv.Atoi(tok)
	}
	end := len(items)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &s3.ListObjectsV2Output{}
	for _, it := range items[start:end] {
		if it.prefix {
			out.CommonPrefixes = append(out.CommonPrefixes, types.CommonPrefix{Prefix: aws.String(it.key)})
			continue
		}
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(it.key),
			Size:         aws.Int64(int64(len(f.objects[it.key]))),
			LastModified: aws.Time(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		})
	}
	if end < len(items) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok || aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func newFake() *fakeS3 {
	return &fakeS3{
		bucket:   "media",
		pageSize: 2,
		objects: map[string]string{
			"photos/":               "",
			"photos/cat.png":        "meow",
			"photos/2024/dog.png":   "woof",
			"photos/2024/notes.txt": "walks",
			"readme.md":             "# media",
			"docs/report.pdf":       "pdf",
		},
	}
}

func names(entries []backend.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestSplitPath(t *testing.T) {
	b, k, err := splitPath("s3://media/photos/2024/")
	require.NoError(t, err)
	assert.Equal(t, "media", b)
	assert.Equal(t, "photos/2024/", k)

	b, k, err = splitPath("s3://")
	require.NoError(t, err)
	assert.Empty(t, b)
	assert.Empty(t, k)

	_, _, err = splitPath("/home/me")
	assert.Error(t, err)
}

func TestReadDirRoot(t *testing.T) {
	p := NewS3WithAPI(newFake())
	entries, err := p.ReadDir(context.Background(), "s3://media/")
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "photos", "readme.md"}, names(entries))
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "s3://media/docs/", entries[0].Path)
	assert.Equal(t, "s3://media/readme.md", entries[2].Path)
	assert.Equal(t, ".md", entries[2].Extension)
	assert.Equal(t, int64(7), entries[2].Size)
}

func TestReadDirSkipsPlaceholder(t *testing.T) {
	p := NewS3WithAPI(newFake())
	entries, err := p.ReadDir(context.Background(), "s3://media/photos")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024", "cat.png"}, names(entries))
}

func TestReadDirBuckets(t *testing.T) {
	p := NewS3WithAPI(newFake())
	entries, err := p.ReadDir(context.Background(), "s3://")
	require.NoError(t, err)
	assert.Equal(t, []string{"media", "zeta"}, names(entries))
	assert.Equal(t, "s3://media/", entries[0].Path)
}

func TestReadDirMissingBucket(t *testing.T) {
	p := NewS3WithAPI(newFake())
	_, err := p.ReadDir(context.Background(), "s3://nope/")
	require.Error(t, err)
	assert.Equal(t, backend.KindNotFound, backend.AsFailure(err).Kind)
}

func TestSearch(t *testing.T) {
	p := NewS3WithAPI(newFake())

	entries, err := p.Search(context.Background(), "s3://media/photos/", "*.png", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat.png", "dog.png"}, names(entries))

	entries, err = p.Search(context.Background(), "s3://media/photos/", "*.png depth:1", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat.png"}, names(entries))

	entries, err = p.Search(context.Background(), "s3://media/", "2024", 4)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "s3://media/photos/2024/", entries[0].Path)
}

func TestDownloadObject(t *testing.T) {
	p := NewS3WithAPI(newFake())
	dir := t.TempDir()

	got, err := p.Download(context.Background(), "s3://media/photos/cat.png", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat.png"), got)

	again, err := p.Download(context.Background(), "s3://media/photos/cat.png", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat_copy1.png"), again)

	data, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, "meow", string(data))
}

func TestDownloadFolder(t *testing.T) {
	p := NewS3WithAPI(newFake())
	dir := t.TempDir()

	got, err := p.Download(context.Background(), "s3://media/photos/", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "photos"), got)

	data, err := os.ReadFile(filepath.Join(got, "2024", "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "walks", string(data))
	assert.FileExists(t, filepath.Join(got, "cat.png"))
}

func TestDownloadMissing(t *testing.T) {
	p := NewS3WithAPI(newFake())
	_, err := p.Download(context.Background(), "s3://media/gone.txt", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, backend.KindNotFound, backend.AsFailure(err).Kind)
}

func TestSystemServesS3ReadOnly(t *testing.T) {
	sys := backend.NewSystem(backend.Options{
		StartPath: t.TempDir(),
		HomePath:  t.TempDir(),
		Providers: []backend.CloudProvider{NewS3WithAPI(newFake())},
	})
	defer sys.Close()
	ctx := context.Background()

	resp := sys.Handle(ctx, backend.Request{Command: backend.GoToDir, Token: 1, Directory: "s3://media/photos/"})
	require.Nil(t, resp.Failure)
	assert.Equal(t, "s3://media/photos/", resp.Dir)
	assert.Equal(t, []string{"2024", "cat.png"}, names(resp.Entries))

	resp = sys.Handle(ctx, backend.Request{Command: backend.GoBack, Token: 2})
	require.Nil(t, resp.Failure)
	assert.Equal(t, "s3://media/", resp.Dir)

	resp = sys.Handle(ctx, backend.Request{Command: backend.CreateFolder, Token: 3, FolderName: "new"})
	require.NotNil(t, resp.Failure)
	assert.Equal(t, backend.KindUnsupported, resp.Failure.Kind)
}
