// Package source fetches the documents to validate from local files, S3
// buckets or web servers.
package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/JiscSD/ed318-validator/version"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/cenkalti/backoff/v3"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	schemeFile  = "file"
	schemeS3    = "s3"
	schemeHTTP  = "http"
	schemeHTTPS = "https"
)

// Loader reads whole documents given their URI.
type Loader struct {
	logger  logrus.FieldLogger
	fs      afero.Fs
	storage ObjectStorage
	client  *http.Client
	retry   func() backoff.BackOff
}

type Option func(*Loader)

// WithFs replaces the operating system filesystem.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) { l.fs = fs }
}

// WithObjectStorage enables s3:// URIs.
func WithObjectStorage(storage ObjectStorage) Option {
	return func(l *Loader) { l.storage = storage }
}

func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) { l.client = client }
}

// WithRetry sets the backoff policy used for HTTP downloads. The function is
// called once per download.
func WithRetry(retry func() backoff.BackOff) Option {
	return func(l *Loader) { l.retry = retry }
}

// ExponentialRetry retries for up to maxElapsed.
func ExponentialRetry(maxElapsed time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		return &backoff.ExponentialBackOff{
			InitialInterval:     500 * time.Millisecond,
			RandomizationFactor: 0.5,
			Multiplier:          1.5,
			MaxInterval:         10 * time.Second,
			MaxElapsedTime:      maxElapsed,
			Clock:               backoff.SystemClock,
		}
	}
}

// NewHTTPClient returns a client with the given overall timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	const (
		dialTimeout      = 5 * time.Second
		handshakeTimeout = 5 * time.Second
	)
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         (&net.Dialer{Timeout: dialTimeout}).DialContext,
			TLSHandshakeTimeout: handshakeTimeout,
		},
	}
}

// New returns a Loader. Without options it reads from the operating system
// filesystem and uses the default HTTP client; s3:// URIs are rejected.
func New(logger logrus.FieldLogger, opts ...Option) *Loader {
	l := &Loader{
		logger: logger,
		fs:     afero.NewOsFs(),
		client: http.DefaultClient,
		retry:  ExponentialRetry(2 * time.Minute),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// location is a parsed document URI. Name is the local path or the URL path
// and decides how the contents are decompressed.
type location struct {
	scheme string
	name   string
	object Object
}

func parseLocation(uri string) (location, error) {
	if uri == "" {
		return location{}, errors.New("document location is empty")
	}
	if !strings.Contains(uri, "://") {
		return location{scheme: schemeFile, name: uri}, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return location{}, errors.Wrap(err, "cannot parse document location")
	}
	loc := location{scheme: u.Scheme, name: u.Path}
	switch loc.scheme {
	case schemeFile:
		loc.name = u.Host + u.Path
	case schemeS3:
		loc.object = Object{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}
		if loc.object.Bucket == "" || loc.object.Key == "" {
			return location{}, errors.Errorf("object URI %q has no bucket or key", uri)
		}
	case schemeHTTP, schemeHTTPS:
	default:
		return location{}, errors.Errorf("unsupported scheme %q", loc.scheme)
	}
	return loc, nil
}

// Load returns the contents of the document at uri, which is a path, a
// file:// URL, an s3://bucket/key URI or an http(s) URL. Documents whose name
// ends in .gz or .zst are decompressed.
func (l *Loader) Load(ctx context.Context, uri string) ([]byte, error) {
	loc, err := parseLocation(uri)
	if err != nil {
		return nil, err
	}

	logger := l.logger.WithField("uri", uri)
	logger.Debug("Loading document")

	var data []byte
	switch loc.scheme {
	case schemeFile:
		data, err = afero.ReadFile(l.fs, loc.name)
	case schemeS3:
		data, err = l.loadS3(ctx, loc.object)
	default:
		data, err = l.loadHTTP(ctx, uri)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load %s", uri)
	}

	size := len(data)
	data, err = decompress(loc.name, data)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decompress %s", uri)
	}
	logger.WithFields(logrus.Fields{"read": size, "size": len(data)}).Debug("Document loaded")

	return data, nil
}

func (l *Loader) loadS3(ctx context.Context, object Object) ([]byte, error) {
	if l.storage == nil {
		return nil, errors.New("object storage is not configured")
	}
	buf := aws.NewWriteAtBuffer(nil)
	if _, err := l.storage.Download(ctx, buf, object); err != nil {
		return nil, errors.Wrapf(err, "cannot download %s", object)
	}
	return buf.Bytes(), nil
}

// loadHTTP downloads a document with exponential backoff. Client errors are
// not retried.
func (l *Loader) loadHTTP(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	req.Header.Set("User-Agent", version.UserAgent())

	var data []byte
	op := func() error {
		resp, err := l.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return backoff.Permanent(
				fmt.Errorf("%s (client error)", http.StatusText(resp.StatusCode)),
			)
		case resp.StatusCode >= 500:
			return fmt.Errorf("%s (server error)", http.StatusText(resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}
		data, err = ioutil.ReadAll(resp.Body)
		return err
	}
	notify := func(err error, next time.Duration) {
		l.logger.WithError(err).WithField("uri", uri).Debugf("Download failed, retrying in %s", next)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(l.retry(), ctx), notify); err != nil {
		return nil, err
	}
	return data, nil
}

func decompress(name string, data []byte) ([]byte, error) {
	var r io.Reader
	switch path.Ext(name) {
	case ".gz":
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case ".zst":
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	default:
		return data, nil
	}
	return ioutil.ReadAll(r)
}
