// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var storageClient *s3.Client
var storageBucket string
var cdnBaseURL string

// InitStorage configures the R2 client used for all media uploads
// (move videos/images, challenge clips, notification images).
func InitStorage() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	storageBucket = os.Getenv("R2_BUCKET_NAME")
	cdnBaseURL = os.Getenv("CDN_BASE_URL")
	if cdnBaseURL == "" {
		cdnBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	storageClient = s3.NewFromConfig(cfg)
	return nil
}

// UploadFileToStorage uploads a multipart file under the given object
// key and returns the public CDN URL.
func UploadFileToStorage(fileHeader *multipart.FileHeader, key string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = storageClient.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(storageBucket),
		Key:         aws.String(key),
		Body:        buf,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return fmt.Sprintf("%s/%s", cdnBaseURL, key), nil
}

// StorageKeyFromURL recovers the object key from a CDN URL produced by
// UploadFileToStorage. Returns "" for URLs outside our CDN base.
func StorageKeyFromURL(url string) string {
	prefix := cdnBaseURL + "/"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return ""
	}
	return url[len(prefix):]
}

// DeleteFromStorage removes an object by key. Best-effort cleanup when
// media is replaced or its owner row is deleted.
func DeleteFromStorage(key string) error {
	_, err := storageClient.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(storageBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}
