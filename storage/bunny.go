package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/config"
)

// Bunny talks to a Bunny-style storage zone over HTTPS
type Bunny struct {
	client     *http.Client
	endpoint   string
	zone       string
	accessKey  string
	publicHost string
}

// NewBunny creates a client for the zone in conf. A nil client gets a default with a timeout.
func NewBunny(conf config.StorageConfig, client *http.Client) *Bunny {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	endpoint := conf.Host
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	publicHost := conf.PublicHost
	if publicHost != "" && !strings.HasPrefix(publicHost, "http://") && !strings.HasPrefix(publicHost, "https://") {
		publicHost = "https://" + publicHost
	}
	return &Bunny{
		client:     client,
		endpoint:   strings.TrimRight(endpoint, "/"),
		zone:       conf.Zone,
		accessKey:  conf.AccessKey,
		publicHost: strings.TrimRight(publicHost, "/"),
	}
}

// PublicURL is the delivery URL of path
func (b *Bunny) PublicURL(path string) string {
	return b.publicHost + "/" + escapePath(path)
}

// Upload stores data at path and returns its public URL
func (b *Bunny) Upload(ctx context.Context, path, contentType, checksum string, data []byte) (string, error) {
	req, err := b.newRequest(ctx, http.MethodPut, path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.ContentLength = int64(len(data))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	if checksum != "" {
		req.Header.Set("Checksum", strings.ToUpper(checksum))
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}
	return b.PublicURL(path), nil
}

// Download streams the object at path
func (b *Bunny) Download(ctx context.Context, path string) (*Object, error) {
	req, err := b.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, readAPIError(resp)
	}
	return &Object{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// Delete removes the object at path. A trailing slash removes a directory.
func (b *Bunny) Delete(ctx context.Context, path string) error {
	req, err := b.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrObjectNotFound
	}
	return readAPIError(resp)
}

func (b *Bunny) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := b.endpoint + "/" + url.PathEscape(b.zone) + "/" + escapePath(path)
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("AccessKey", b.accessKey)
	return req, nil
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{HTTPCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(raw) > 0 {
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
	}
	if apiErr.HTTPCode == 0 {
		apiErr.HTTPCode = resp.StatusCode
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	zap.S().Warnw("storage request failed", "status", resp.StatusCode, "message", apiErr.Message)
	return apiErr
}

// escapePath escapes every segment of a slash separated path
func escapePath(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
