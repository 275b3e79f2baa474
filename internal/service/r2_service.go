package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	cfg "github.com/maheshrc27/approval-api/configs"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	ResourceImage = "image"
	ResourceVideo = "video"
)

var allowedMedia = map[string]string{
	"jpg":  ResourceImage,
	"jpeg": ResourceImage,
	"png":  ResourceImage,
	"webp": ResourceImage,
	"mp4":  ResourceVideo,
	"mov":  ResourceVideo,
}

type UploadResult struct {
	URL          string `json:"url"`
	AssetID      string `json:"asset_id"`
	ResourceType string `json:"resource_type"`
	MIME         string `json:"mime"`
}

// UploadError carries the HTTP status of a failed upload. StatusCode is 0 when
// the request never got a response.
type UploadError struct {
	StatusCode int
	StatusText string
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upload failed: %v", e.Err)
	}
	return fmt.Sprintf("upload failed: %d %s: %v", e.StatusCode, e.StatusText, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// ProgressFunc receives the overall upload percentage, 0 to 100.
type ProgressFunc func(percent int)

type MediaUploader interface {
	Upload(ctx context.Context, file []byte) (*UploadResult, error)
	UploadAll(ctx context.Context, files [][]byte, onProgress ProgressFunc) ([]*UploadResult, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type R2Service struct {
	client    objectPutter
	bucket    string
	publicURL string
	preset    string
}

func NewR2Service(c cfg.Config) *R2Service {
	return &R2Service{
		client:    newR2Client(c),
		bucket:    c.R2.BucketName,
		publicURL: strings.TrimSuffix(c.R2.PublicURL, "/"),
		preset:    c.UploadPreset,
	}
}

func newR2Client(c cfg.Config) *s3.Client {
	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.R2.AccessKey, c.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		log.Fatal(err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2.AccountID))
	})
}

// Upload stores one media file. Images and videos go under different key
// prefixes of the configured preset.
func (r *R2Service) Upload(ctx context.Context, file []byte) (*UploadResult, error) {
	kind, err := filetype.Match(file)
	if err != nil || kind == types.Unknown {
		return nil, fmt.Errorf("unsupported file type")
	}
	resource, ok := allowedMedia[kind.Extension]
	if !ok {
		return nil, fmt.Errorf("file type %s is not allowed", kind.Extension)
	}

	assetID, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	key := fmt.Sprintf("%s/%s/upload/%s.%s", r.preset, resource, assetID, kind.Extension)

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file),
		ContentType: aws.String(kind.MIME.Value),
		Metadata:    map[string]string{"upload-preset": r.preset, "resource-type": resource},
	})
	if err != nil {
		slog.Info(err.Error())
		return nil, toUploadError(err)
	}

	return &UploadResult{
		URL:          fmt.Sprintf("%s/%s", r.publicURL, key),
		AssetID:      assetID,
		ResourceType: resource,
		MIME:         kind.MIME.Value,
	}, nil
}

// UploadAll uploads files one at a time and stops at the first failure.
// Objects already stored are left in place.
func (r *R2Service) UploadAll(ctx context.Context, files [][]byte, onProgress ProgressFunc) ([]*UploadResult, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	report(0)
	results := make([]*UploadResult, 0, len(files))
	for i, file := range files {
		res, err := r.Upload(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("file %d of %d: %w", i+1, len(files), err)
		}
		results = append(results, res)
		report((i + 1) * 100 / len(files))
	}
	return results, nil
}

func toUploadError(err error) *UploadError {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		code := respErr.HTTPStatusCode()
		return &UploadError{StatusCode: code, StatusText: http.StatusText(code), Err: err}
	}
	return &UploadError{Err: err}
}
