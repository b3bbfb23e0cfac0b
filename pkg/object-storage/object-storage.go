package object_storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"github.com/dapr/go-sdk/client"
	"io"
	"motion-box/internal/utils"
	"os"
	"path"
	"path/filepath"
)

// BindingProxy Proxy to query the backend storage
type BindingProxy = utils.Binder

// ObjectStorage any S3-like storage solution, reached through a Dapr output binding.
// Files are exchanged base64 encoded
type ObjectStorage[T BindingProxy] struct {
	// Destination path for all downloads
	assetsPath string
	// Name of the Dapr component to use
	componentName string
	// Client to query the backend storage
	client T
	// Current running context
	ctx *context.Context
}

// NewDaprObjectStorage Prod ready constructor for an object-storage using Dapr.
// Downloads land in a new temporary directory
func NewDaprObjectStorage(ctx *context.Context, daprClient client.Client, component string) (*ObjectStorage[client.Client], error) {
	dir, err := os.MkdirTemp("", "downloader-")
	if err != nil {
		return nil, err
	}
	return NewObjectStorage[client.Client](ctx, dir, component, daprClient), nil
}

// NewObjectStorage General purpose object storage
func NewObjectStorage[T BindingProxy](ctx *context.Context, assetsPath string, component string, client T) *ObjectStorage[T] {
	return &ObjectStorage[T]{
		assetsPath:    assetsPath,
		componentName: component,
		client:        client,
		ctx:           ctx,
	}
}

// WithContext Copy of the storage whose calls are bound to ctx
func (od *ObjectStorage[T]) WithContext(ctx *context.Context) *ObjectStorage[T] {
	bound := *od
	bound.ctx = ctx
	return &bound
}

// AssetsPath Directory downloads are written into
func (od *ObjectStorage[T]) AssetsPath() string {
	return od.assetsPath
}

// LocalPath Where the object stored at key is downloaded. Keys cannot escape the assets directory
func (od *ObjectStorage[T]) LocalPath(key string) string {
	return filepath.Join(od.assetsPath, filepath.FromSlash(path.Clean("/"+key)))
}

// Download a file from the backend storage, and return its local path
func (od *ObjectStorage[T]) Download(key string) (*string, error) {
	res, err := od.client.InvokeBinding(*od.ctx, &client.InvokeBindingRequest{
		Name:      od.componentName,
		Operation: "get",
		Data:      nil,
		Metadata:  map[string]string{"key": key},
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf(`empty response for key "%s"`, key)
	}
	writePath := od.LocalPath(key)
	if err = os.MkdirAll(filepath.Dir(writePath), 0o755); err != nil {
		return nil, err
	}
	output, err := os.Create(writePath)
	if err != nil {
		return nil, err
	}
	defer output.Close()
	decoder := base64.NewDecoder(base64.StdEncoding, bytes.NewReader(res.Data))
	if _, err = io.Copy(output, decoder); err != nil {
		_ = os.Remove(writePath)
		return nil, fmt.Errorf(`invalid data for key "%s" : %w`, key, err)
	}
	return &writePath, nil
}

// Upload Uploads a file on the backend storage
func (od *ObjectStorage[T]) Upload(filePath string, key string) error {
	b64bytes, err := readFileToB64(filePath)
	if err != nil {
		return err
	}
	_, err = od.client.InvokeBinding(*od.ctx, &client.InvokeBindingRequest{
		Name:      od.componentName,
		Operation: "create",
		Data:      b64bytes,
		Metadata: map[string]string{
			"key": key,
		},
	})
	return err
}

// Delete a file in the remote object storage
func (od *ObjectStorage[T]) Delete(key string) error {
	_, err := od.client.InvokeBinding(*od.ctx, &client.InvokeBindingRequest{
		Name:      od.componentName,
		Operation: "delete",
		Data:      nil,
		Metadata: map[string]string{
			"key": key,
		},
	})
	return err
}

// Read a file into a base64 bytes-array
func readFileToB64(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	var buf bytes.Buffer
	b64enc := base64.NewEncoder(base64.StdEncoding, &buf)
	if _, err = io.Copy(b64enc, file); err != nil {
		return nil, err
	}
	// Flush any partially encoded block
	if err = b64enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
