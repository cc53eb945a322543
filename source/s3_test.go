package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fs = afero.Afero{Fs: afero.NewMemMapFs()}

func tempFile(t *testing.T, contents string) afero.File {
	file, err := fs.TempFile("", "")
	require.NoError(t, err)
	t.Logf("Created temporary file: %s", file.Name())
	fmt.Fprint(file, contents)
	_, err = file.Seek(0, 0)
	require.NoError(t, err)
	return file
}

type mockS3Client struct {
	s3iface.S3API
	f      afero.File
	bucket string
	key    string
}

func (c *mockS3Client) GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error) {
	c.bucket, c.key = aws.StringValue(input.Bucket), aws.StringValue(input.Key)
	return &s3.GetObjectOutput{
		Body:         c.f,
		ContentRange: aws.String("1"),
	}, nil
}

func newMockStorage(t *testing.T, contents string) (*S3Storage, *mockS3Client) {
	fi := tempFile(t, contents)
	t.Cleanup(func() { fi.Close() })

	s3c := &mockS3Client{f: fi}
	return newS3Storage(s3c), s3c
}

func TestS3Storage_Download(t *testing.T) {
	const want = `{"type": "FeatureCollection", "features": []}`

	storage, s3c := newMockStorage(t, want)

	buf := aws.NewWriteAtBuffer(nil)
	_, err := storage.Download(context.Background(), buf, Object{Bucket: "zones", Key: "es/2024.json"})
	require.NoError(t, err)
	assert.Equal(t, want, string(buf.Bytes()))
	assert.Equal(t, "zones", s3c.bucket)
	assert.Equal(t, "es/2024.json", s3c.key)
}

func Test_parseLocation(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		uri     string
		want    location
		wantErr bool
	}{
		"Path": {uri: "testdata/zones.json", want: location{scheme: "file", name: "testdata/zones.json"}},
		"Relative file URL": {
			uri:  "file://../testdata/zones.json",
			want: location{scheme: "file", name: "../testdata/zones.json"},
		},
		"HTTPS URL": {
			uri:  "https://example.org/zones.json.gz",
			want: location{scheme: "https", name: "/zones.json.gz"},
		},
		"Object at the bucket root": {
			uri: "s3://uas-zones-2344/zones.json",
			want: location{
				scheme: "s3",
				name:   "/zones.json",
				object: Object{Bucket: "uas-zones-2344", Key: "zones.json"},
			},
		},
		"Nested object": {
			uri: "s3://a-different-bucket/fr/2024/zones.json.gz",
			want: location{
				scheme: "s3",
				name:   "/fr/2024/zones.json.gz",
				object: Object{Bucket: "a-different-bucket", Key: "fr/2024/zones.json.gz"},
			},
		},
		"Invalid URL":    {uri: "s3://bucket%zz/key", wantErr: true},
		"Missing key":    {uri: "s3://bucket/", wantErr: true},
		"Missing bucket": {uri: "s3:///zones.json", wantErr: true},
		"Other scheme":   {uri: "ftp://bucket/key", wantErr: true},
		"Empty":          {uri: "", wantErr: true},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			loc, err := parseLocation(tc.uri)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Equal(t, location{}, loc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, loc)
		})
	}
}

func TestObjectString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "s3://zones/es/2024.json", Object{Bucket: "zones", Key: "es/2024.json"}.String())
}
