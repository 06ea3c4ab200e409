package aws

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

func GetS3Client() *s3.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	return svc
}

// SlipArchive keeps a copy of every uploaded payment slip in a bucket.
type SlipArchive struct {
	client  *s3.Client
	bucket  string
	Expires time.Duration
}

func NewSlipArchive(bucket string) *SlipArchive {
	if bucket == "" {
		return nil
	}
	client := GetS3Client()
	if client == nil {
		return nil
	}
	return &SlipArchive{client: client, bucket: bucket, Expires: time.Hour}
}

// SlipKey is the object key of a slip of the given history record.
func SlipKey(historyID uint, filename string) string {
	return path.Join("slips", fmt.Sprint(historyID), uuid.NewString()+path.Ext(filename))
}

// Archive uploads the slip and returns a presigned GET url for it.
func (a *SlipArchive) Archive(ctx context.Context, historyID uint, filename, contentType string, body io.Reader) (*string, error) {
	key := SlipKey(historyID, filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("Could not put object to S3 bucket: %s\n", err.Error())
		return nil, err
	}
	err = s3.NewObjectExistsWaiter(a.client).Wait(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, time.Minute)
	if err != nil {
		log.Printf("Failed attempt to wait for object %s to exist: %s\n", key, err.Error())
		return nil, err
	}
	log.Printf("Added object '%s' to bucket '%s'", key, a.bucket)
	pre := s3.NewPresignClient(a.client)
	r, err := pre.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	}, func(po *s3.PresignOptions) {
		po.Expires = a.Expires
	})
	if err != nil {
		log.Printf("Could not generate presigned URL for object [%s]: %s\n", key, err.Error())
		return nil, err
	}
	return &r.URL, nil
}
