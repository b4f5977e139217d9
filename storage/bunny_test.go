package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/telehealth-api/config"
)

func newTestBunny(t *testing.T, h http.HandlerFunc) *Bunny {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewBunny(config.StorageConfig{
		Host:       srv.URL,
		Zone:       "clinic",
		AccessKey:  "secret",
		PublicHost: "cdn.example.com",
	}, srv.Client())
}

func TestBunny_Upload(t *testing.T) {
	var gotPath, gotKey, gotChecksum, gotType string
	var gotBody []byte
	b := newTestBunny(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.EscapedPath()
		gotKey = r.Header.Get("AccessKey")
		gotChecksum = r.Header.Get("Checksum")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"HttpCode":201,"Message":"File uploaded."}`))
	})

	url, err := b.Upload(context.Background(), "u1/pdf/lab result_1700000000000_ab12.pdf", "application/pdf", "abc123", []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, "/clinic/u1/pdf/lab%20result_1700000000000_ab12.pdf", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "ABC123", gotChecksum)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("%PDF"), gotBody)
	assert.Equal(t, "https://cdn.example.com/u1/pdf/lab%20result_1700000000000_ab12.pdf", url)
}

func TestBunny_UploadErrorBody(t *testing.T) {
	b := newTestBunny(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"HttpCode":400,"Message":"Checksum and file hash do not match."}`))
	})

	_, err := b.Upload(context.Background(), "u1/image/a.png", "image/png", "00", []byte("x"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 400, apiErr.HTTPCode)
	assert.Equal(t, "Checksum and file hash do not match.", apiErr.Message)
}

func TestBunny_UploadPlainErrorBody(t *testing.T) {
	b := newTestBunny(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("Unauthorized"))
	})

	_, err := b.Upload(context.Background(), "a", "", "", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.HTTPCode)
	assert.Equal(t, "Unauthorized", apiErr.Message)
}

func TestBunny_Download(t *testing.T) {
	b := newTestBunny(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/clinic/missing.pdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.7"))
	})

	obj, err := b.Download(context.Background(), "u1/pdf/a.pdf")
	require.NoError(t, err)
	defer obj.Body.Close()
	body, _ := io.ReadAll(obj.Body)
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, "application/pdf", obj.ContentType)

	_, err = b.Download(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestBunny_Delete(t *testing.T) {
	var deleted []string
	b := newTestBunny(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		deleted = append(deleted, r.URL.Path)
		if r.URL.Path == "/clinic/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, b.Delete(context.Background(), "u1/pdf/"))
	assert.ErrorIs(t, b.Delete(context.Background(), "gone"), ErrObjectNotFound)
	assert.Equal(t, []string{"/clinic/u1/pdf/", "/clinic/gone"}, deleted)
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New(config.StorageConfig{Backend: "bunny", Host: "storage.bunnycdn.com", Zone: "z", AccessKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Bunny{}, s)

	_, err = New(config.StorageConfig{Backend: "bunny"})
	assert.Error(t, err)

	_, err = New(config.StorageConfig{Backend: "s3"})
	assert.EqualError(t, err, `unknown storage backend "s3"`)
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, "a/b%20c/d%23.pdf", escapePath("/a/b c/d#.pdf"))
}
