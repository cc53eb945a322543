package source

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Object names a document stored in a bucket.
type Object struct {
	Bucket string
	Key    string
}

func (o Object) String() string {
	return schemeS3 + "://" + o.Bucket + "/" + o.Key
}

// ObjectStorage is a S3-compatible storage interface.
type ObjectStorage interface {
	Download(ctx context.Context, w io.WriterAt, object Object) (int64, error)
}

// S3Storage downloads data sets published in S3 buckets. Large objects are
// fetched in concurrent ranged parts.
type S3Storage struct {
	downloader *s3manager.Downloader
}

var _ ObjectStorage = (*S3Storage)(nil)

// NewObjectStorage returns an S3Storage using the given session.
func NewObjectStorage(sess *session.Session) *S3Storage {
	return newS3Storage(s3.New(sess))
}

func newS3Storage(client s3iface.S3API) *S3Storage {
	return &S3Storage{downloader: s3manager.NewDownloaderWithClient(client)}
}

func (s *S3Storage) Download(ctx context.Context, w io.WriterAt, object Object) (int64, error) {
	return s.downloader.DownloadWithContext(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(object.Bucket),
		Key:    aws.String(object.Key),
	})
}
