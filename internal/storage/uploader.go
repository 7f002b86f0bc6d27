// Package storage uploads the published tree and manifests to
// S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/maddyp86/congress/internal/config"
	"github.com/maddyp86/congress/internal/logger"
)

// Uploader pushes local files to the configured bucket.
type Uploader struct {
	client *miniogo.Client
	config *config.StorageConfig
	logger logger.Interface
}

// NewUploader creates an Uploader. When storage is disabled the uploader
// is inert; when FailSilently is set, client construction errors degrade
// to an inert uploader instead of failing the command.
func NewUploader(cfg *config.StorageConfig, log logger.Interface) (*Uploader, error) {
	if cfg == nil {
		return nil, errors.New("storage config is nil")
	}

	uploader := &Uploader{
		config: cfg,
		logger: log.WithComponent("storage"),
	}

	if !cfg.Enabled {
		uploader.logger.Info("Object storage sync disabled")
		return uploader, nil
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		if cfg.FailSilently {
			uploader.logger.Warn("Failed to create storage client, continuing without sync", "error", err)
			return uploader, nil
		}
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	uploader.client = client
	uploader.logger.Info("Object storage client initialized",
		"endpoint", cfg.Endpoint,
		"bucket", cfg.Bucket)
	return uploader, nil
}

// Enabled reports whether uploads will actually happen.
func (u *Uploader) Enabled() bool {
	return u.config.Enabled && u.client != nil
}

// UploadFile uploads one local file to objectName within the configured
// bucket and prefix.
func (u *Uploader) UploadFile(ctx context.Context, localPath, objectName string) error {
	if !u.Enabled() {
		return nil
	}
	if u.config.Prefix != "" {
		objectName = path.Join(u.config.Prefix, objectName)
	}

	_, err := u.client.FPutObject(ctx, u.config.Bucket, objectName, localPath,
		miniogo.PutObjectOptions{ContentType: contentTypeFor(localPath)})
	if err != nil {
		return fmt.Errorf("upload %s: %w", objectName, err)
	}
	u.logger.Debug("Uploaded object", "object", objectName)
	return nil
}

// UploadTree uploads every regular file under localRoot, mirroring the
// tree under remotePrefix. Returns the number of files uploaded.
func (u *Uploader) UploadTree(ctx context.Context, localRoot, remotePrefix string) (int, error) {
	if !u.Enabled() {
		return 0, nil
	}

	uploaded := 0
	err := filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(localRoot, p)
		if relErr != nil {
			return relErr
		}
		object := path.Join(remotePrefix, filepath.ToSlash(rel))
		if err := u.UploadFile(ctx, p, object); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("upload tree %s: %w", localRoot, err)
	}

	u.logger.Info("Tree uploaded", "root", localRoot, "prefix", remotePrefix, "files", uploaded)
	return uploaded, nil
}

// UploadManifests uploads the manifest JSON files from manifestDir to
// the top of the bucket prefix. Returns the number uploaded.
func (u *Uploader) UploadManifests(ctx context.Context, manifestDir string) (int, error) {
	if !u.Enabled() {
		return 0, nil
	}

	matches, err := filepath.Glob(filepath.Join(manifestDir, "*-manifest*.json"))
	if err != nil {
		return 0, fmt.Errorf("glob manifests: %w", err)
	}

	for _, m := range matches {
		if err := u.UploadFile(ctx, m, filepath.Base(m)); err != nil {
			return 0, err
		}
	}
	u.logger.Info("Manifests uploaded", "count", len(matches))
	return len(matches), nil
}

// contentTypeFor maps a file name to its MIME type.
func contentTypeFor(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".pdf":
		return "application/pdf"
	case ".htm", ".html":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
