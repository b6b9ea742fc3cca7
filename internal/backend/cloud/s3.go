// Package cloud serves remote object stores as read-only backend trees.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/justyntemme/skiff/internal/backend"
	"github.com/justyntemme/skiff/internal/debug"
	"github.com/justyntemme/skiff/internal/search"
)

const scheme = "s3"

// API is the part of *s3.Client the provider uses.
type API interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options configures the S3 client.
type Options struct {
	Region          string
	Endpoint        string // S3-compatible services such as MinIO
	Profile         string
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
}

// S3 implements backend.CloudProvider for "s3://bucket/prefix/" paths.
type S3 struct {
	api API
}

var _ backend.CloudProvider = (*S3)(nil)

// NewS3 loads AWS configuration from the environment, shared config and the
// given overrides.
func NewS3(ctx context.Context, opts Options) (*S3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})
	return NewS3WithAPI(client), nil
}

// NewS3WithAPI wraps an existing client.
func NewS3WithAPI(api API) *S3 {
	return &S3{api: api}
}

func (p *S3) Scheme() string { return scheme }

// splitPath turns "s3://bucket/a/b/" into ("bucket", "a/b/").
func splitPath(p string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(p, scheme+"://")
	if !ok {
		return "", "", &backend.Failure{Kind: backend.KindInvalid, Message: p + " is not an s3 path"}
	}
	bucket, key, _ = strings.Cut(rest, "/")
	return bucket, key, nil
}

func dirPrefix(key string) string {
	if key != "" && !strings.HasSuffix(key, "/") {
		key += "/"
	}
	return key
}

func objectPath(bucket, key string) string {
	return scheme + "://" + bucket + "/" + key
}

// ReadDir lists one level. The bare "s3://" root lists buckets.
func (p *S3) ReadDir(ctx context.Context, dir string) ([]backend.Entry, error) {
	bucket, key, err := splitPath(dir)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		return p.listBuckets(ctx)
	}
	prefix := dirPrefix(key)
	debug.Log(debug.BACKEND, "s3 list bucket=%q prefix=%q", bucket, prefix)

	var entries []backend.Entry
	pager := s3.NewListObjectsV2Paginator(p.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, cp := range page.CommonPrefixes {
			sub := aws.ToString(cp.Prefix)
			entries = append(entries, backend.Entry{
				Name:  strings.TrimSuffix(strings.TrimPrefix(sub, prefix), "/"),
				Path:  objectPath(bucket, sub),
				IsDir: true,
			})
		}
		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			if k == prefix {
				continue // folder placeholder
			}
			entries = append(entries, fileEntry(bucket, k, obj))
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (p *S3) listBuckets(ctx context.Context) ([]backend.Entry, error) {
	out, err := p.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, classify(err)
	}
	entries := make([]backend.Entry, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		entries = append(entries, backend.Entry{
			Name:         name,
			Path:         objectPath(name, ""),
			IsDir:        true,
			LastModified: aws.ToTime(b.CreationDate),
		})
	}
	sortEntries(entries)
	return entries, nil
}

func fileEntry(bucket, key string, obj types.Object) backend.Entry {
	name := path.Base(key)
	return backend.Entry{
		Name:         name,
		Path:         objectPath(bucket, key),
		Extension:    path.Ext(name),
		Size:         aws.ToInt64(obj.Size),
		LastModified: aws.ToTime(obj.LastModified),
	}
}

// Search lists everything under dir and keeps what the query matches.
// Folders are inferred from key prefixes.
func (p *S3) Search(ctx context.Context, dir, query string, depth int) ([]backend.Entry, error) {
	q := search.Parse(query)
	if q.IsEmpty() {
		return p.ReadDir(ctx, dir)
	}
	bucket, key, err := splitPath(dir)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		return nil, &backend.Failure{Kind: backend.KindUnsupported, Message: "search needs a bucket"}
	}
	prefix := dirPrefix(key)
	maxDepth := q.Depth(depth)
	matcher := search.NewMatcherWithContext(ctx, q)

	var results []backend.Entry
	seenDirs := make(map[string]bool)
	pager := s3.NewListObjectsV2Paginator(p.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify(err)
		}
		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(k, prefix)
			if rel == "" {
				continue
			}
			parts := strings.Split(strings.TrimSuffix(rel, "/"), "/")

			// intermediate folders
			for i := 0; i < len(parts)-1 && i < maxDepth; i++ {
				sub := prefix + strings.Join(parts[:i+1], "/") + "/"
				if seenDirs[sub] {
					continue
				}
				seenDirs[sub] = true
				e := backend.Entry{Name: parts[i], Path: objectPath(bucket, sub), IsDir: true}
				if matcher.Match(e.Path, entryInfo{e}) {
					results = append(results, e)
				}
			}
			if len(parts) > maxDepth || strings.HasSuffix(k, "/") {
				continue
			}
			e := fileEntry(bucket, k, obj)
			if matcher.Match(e.Path, entryInfo{e}) {
				results = append(results, e)
			}
		}
	}
	sortEntries(results)
	return results, nil
}

// Download copies the object (or every object under a folder path) into
// destDir and returns the local path.
func (p *S3) Download(ctx context.Context, src, destDir string) (string, error) {
	bucket, key, err := splitPath(src)
	if err != nil {
		return "", err
	}
	if bucket == "" {
		return "", &backend.Failure{Kind: backend.KindUnsupported, Message: "cannot download the bucket list"}
	}
	if key == "" || strings.HasSuffix(key, "/") {
		name := bucket
		if key != "" {
			name = path.Base(strings.TrimSuffix(key, "/"))
		}
		return p.downloadPrefix(ctx, bucket, key, freeName(destDir, name))
	}

	dst := freeName(destDir, path.Base(key))
	if err := p.downloadObject(ctx, bucket, key, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (p *S3) downloadPrefix(ctx context.Context, bucket, prefix, dst string) (string, error) {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}
	pager := s3.NewListObjectsV2Paginator(p.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", classify(err)
		}
		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(k, prefix)
			if rel == "" || strings.HasSuffix(rel, "/") {
				continue
			}
			target := filepath.Join(dst, filepath.FromSlash(path.Clean("/" + rel)))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", err
			}
			if err := p.downloadObject(ctx, bucket, k, target); err != nil {
				return "", fmt.Errorf("%s: %w", rel, err)
			}
		}
	}
	return dst, nil
}

func (p *S3) downloadObject(ctx context.Context, bucket, key, dst string) error {
	debug.Log(debug.BACKEND, "s3 get %s/%s -> %s", bucket, key, dst)
	out, err := p.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classify(err)
	}
	defer out.Body.Close()

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	return f.Close()
}

// freeName returns dir/name, or dir/stem_copyN.ext for the first free N.
func freeName(dir, name string) string {
	dst := filepath.Join(dir, name)
	if _, err := os.Lstat(dst); err != nil {
		return dst
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		dst = filepath.Join(dir, stem+"_copy"+strconv.Itoa(i)+ext)
		if _, err := os.Lstat(dst); err != nil {
			return dst
		}
	}
}

func classify(err error) error {
	var (
		noKey    *types.NoSuchKey
		noBucket *types.NoSuchBucket
	)
	switch {
	case errors.As(err, &noKey), errors.As(err, &noBucket):
		return &backend.Failure{Kind: backend.KindNotFound, Message: err.Error()}
	}
	return err
}

func sortEntries(entries []backend.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}

// entryInfo lets the search matcher treat an object as a file.
type entryInfo struct{ e backend.Entry }

func (i entryInfo) Name() string       { return i.e.Name }
func (i entryInfo) Size() int64        { return i.e.Size }
func (i entryInfo) ModTime() time.Time { return i.e.LastModified }
func (i entryInfo) IsDir() bool        { return i.e.IsDir }
func (i entryInfo) Sys() any           { return nil }
func (i entryInfo) Mode() fs.FileMode {
	if i.e.IsDir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}
