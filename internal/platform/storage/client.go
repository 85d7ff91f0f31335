package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const defaultExpiry = 15 * time.Minute

// Client issues V4 signed URLs for the vehicle verification documents bucket.
// Document bytes never flow through the API; clients upload and read directly.
type Client struct {
	bucket string
	gcs    *gcs.Client
	expiry time.Duration
}

// ClientOption customises Client construction.
type ClientOption func(*Client)

// WithExpiry overrides the signed URL validity window.
func WithExpiry(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.expiry = d
		}
	}
}

// NewClient constructs a Client bound to the given bucket.
func NewClient(ctx context.Context, bucket string, opts ...ClientOption) (*Client, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket name is required")
	}

	gcsClient, err := gcs.NewClient(ctx, []option.ClientOption{}...)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}

	c := &Client{
		bucket: bucket,
		gcs:    gcsClient,
		expiry: defaultExpiry,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// DocumentObjectPath builds the canonical object path for a vehicle verification document.
func DocumentObjectPath(vehicleID, documentID, filename string) string {
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		filename = "document"
	}
	return path.Join("vehicles", strings.TrimSpace(vehicleID), "documents", strings.TrimSpace(documentID), filename)
}

// SignedUploadURL returns a PUT URL for uploading a document object.
func (c *Client) SignedUploadURL(objectPath, contentType string) (string, error) {
	return c.signedURL(objectPath, http.MethodPut, contentType)
}

// SignedDownloadURL returns a GET URL for reading a document object.
func (c *Client) SignedDownloadURL(objectPath string) (string, error) {
	return c.signedURL(objectPath, http.MethodGet, "")
}

// DeleteObject removes a document object, tolerating already-deleted objects.
func (c *Client) DeleteObject(ctx context.Context, objectPath string) error {
	if c == nil || c.gcs == nil {
		return errors.New("storage: client not initialised")
	}
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return errors.New("storage: object path is required")
	}
	err := c.gcs.Bucket(c.bucket).Object(objectPath).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

// Close releases the underlying client.
func (c *Client) Close() error {
	if c == nil || c.gcs == nil {
		return nil
	}
	return c.gcs.Close()
}

func (c *Client) signedURL(objectPath, method, contentType string) (string, error) {
	if c == nil || c.gcs == nil {
		return "", errors.New("storage: client not initialised")
	}
	objectPath = strings.TrimSpace(objectPath)
	if objectPath == "" {
		return "", errors.New("storage: object path is required")
	}

	opts := &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  method,
		Expires: time.Now().UTC().Add(c.expiry),
	}
	if contentType != "" {
		opts.ContentType = contentType
	}

	url, err := c.gcs.Bucket(c.bucket).SignedURL(objectPath, opts)
	if err != nil {
		return "", fmt.Errorf("storage: sign url for %s: %w", objectPath, err)
	}
	return url, nil
}
