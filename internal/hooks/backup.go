package hooks

import (
	"bytes"
	"context"
	"fmt"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/Azure/azure-storage-blob-go/azblob"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"google.golang.org/api/option"

	"github.com/ocireg/registry/internal/logx"
	"github.com/ocireg/registry/internal/registry"
	"github.com/ocireg/registry/internal/storage"
)

// BackupConfig selects and configures exactly one off-site replication
// provider. Provider is one of "aws", "gcp", "azure", or "" (disabled).
type BackupConfig struct {
	Provider string

	AWSBucket          string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	GCPBucket          string
	GCPCredentialsFile string

	AzureStorageAccount string
	AzureAccountKey     string
	AzureContainer      string
}

// BackupSink replicates newly uploaded manifest bytes to an off-site
// bucket or container. The upload runs synchronously inside
// OnManifestUploaded, so the triggering request waits for it, but it
// never fails that request: every error is logged and swallowed.
type BackupSink struct {
	store storage.Store
	log   *logx.Logger

	provider string

	s3Client   *s3.S3
	s3Uploader *s3manager.Uploader
	s3Bucket   string

	gcsClient *gcs.Client
	gcsBucket string

	azureContainerURL azblob.ContainerURL
}

// NewBackupSink builds a BackupSink from cfg. It returns (nil, nil) when
// cfg.Provider is empty, signaling the caller to skip wiring it into the
// MultiHook rather than carrying a disabled sink around.
func NewBackupSink(ctx context.Context, cfg BackupConfig, store storage.Store, log *logx.Logger) (*BackupSink, error) {
	switch cfg.Provider {
	case "":
		log.WithFunc().Info("no backup provider configured, off-site replication disabled")
		return nil, nil
	case "aws":
		return newAWSBackupSink(cfg, store, log)
	case "gcp":
		return newGCPBackupSink(ctx, cfg, store, log)
	case "azure":
		return newAzureBackupSink(ctx, cfg, store, log)
	default:
		return nil, fmt.Errorf("unknown backup provider %q", cfg.Provider)
	}
}

func newAWSBackupSink(cfg BackupConfig, store storage.Store, log *logx.Logger) (*BackupSink, error) {
	if cfg.AWSBucket == "" {
		return nil, fmt.Errorf("aws backup provider selected but no bucket configured")
	}
	if cfg.AWSAccessKeyID == "" || cfg.AWSSecretAccessKey == "" {
		return nil, fmt.Errorf("aws credentials not provided")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &BackupSink{
		store:      store,
		log:        log,
		provider:   "aws",
		s3Client:   s3.New(sess),
		s3Uploader: s3manager.NewUploader(sess),
		s3Bucket:   cfg.AWSBucket,
	}, nil
}

func newGCPBackupSink(ctx context.Context, cfg BackupConfig, store storage.Store, log *logx.Logger) (*BackupSink, error) {
	if cfg.GCPBucket == "" {
		return nil, fmt.Errorf("gcp backup provider selected but no bucket configured")
	}
	if cfg.GCPCredentialsFile == "" {
		return nil, fmt.Errorf("gcp credentials file path not provided")
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := gcs.NewClient(initCtx, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP client: %w", err)
	}

	return &BackupSink{
		store:     store,
		log:       log,
		provider:  "gcp",
		gcsClient: client,
		gcsBucket: cfg.GCPBucket,
	}, nil
}

func newAzureBackupSink(ctx context.Context, cfg BackupConfig, store storage.Store, log *logx.Logger) (*BackupSink, error) {
	if cfg.AzureStorageAccount == "" || cfg.AzureContainer == "" {
		return nil, fmt.Errorf("azure storage account or container not configured")
	}
	if cfg.AzureAccountKey == "" {
		return nil, fmt.Errorf("azure storage account key not provided")
	}

	credential, err := azblob.NewSharedKeyCredential(cfg.AzureStorageAccount, cfg.AzureAccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credentials: %w", err)
	}
	pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})

	containerURL, err := parseAzureContainerURL(cfg.AzureStorageAccount, cfg.AzureContainer)
	if err != nil {
		return nil, err
	}

	sink := &BackupSink{
		store:             store,
		log:               log,
		provider:          "azure",
		azureContainerURL: azblob.NewContainerURL(containerURL, pipeline),
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := sink.azureContainerURL.GetProperties(initCtx, azblob.LeaseAccessConditions{}); err != nil {
		if storageErr, ok := err.(azblob.StorageError); ok && storageErr.ServiceCode() == azblob.ServiceCodeContainerNotFound {
			if _, err := sink.azureContainerURL.Create(initCtx, azblob.Metadata{}, azblob.PublicAccessNone); err != nil {
				return nil, fmt.Errorf("failed to create container %s: %w", cfg.AzureContainer, err)
			}
		} else {
			return nil, fmt.Errorf("failed to access Azure container %s: %w", cfg.AzureContainer, err)
		}
	}

	return sink, nil
}

// OnManifestUploaded fetches the manifest back out of the store and
// replicates it to the configured backend under a key derived from the
// repository, image and the reference (tag or digest) it was pushed
// under. Any failure is logged, never propagated.
func (s *BackupSink) OnManifestUploaded(ctx context.Context, ref registry.ManifestReference) {
	data, ok, err := s.store.GetManifest(ctx, ref)
	if err != nil || !ok {
		s.log.WithFunc().WithError(err).Warn("backup sink could not read back uploaded manifest")
		return
	}

	key := fmt.Sprintf("manifests/%s/%s/%s", ref.Location.Repository, ref.Location.Image, ref.Ref.String())

	var uploadErr error
	switch s.provider {
	case "aws":
		uploadErr = s.uploadAWS(ctx, key, data)
	case "gcp":
		uploadErr = s.uploadGCP(ctx, key, data)
	case "azure":
		uploadErr = s.uploadAzure(ctx, key, data)
	}

	if uploadErr != nil {
		s.log.WithFunc().WithError(uploadErr).WithField("key", key).Error("failed to replicate manifest to backup provider")
		return
	}
	s.log.WithFunc().WithField("key", key).Info("manifest replicated to backup provider")
}

func (s *BackupSink) uploadAWS(ctx context.Context, key string, data []byte) error {
	_, err := s.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.s3Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

func (s *BackupSink) uploadGCP(ctx context.Context, key string, data []byte) error {
	writer := s.gcsClient.Bucket(s.gcsBucket).Object(key).NewWriter(ctx)
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func (s *BackupSink) uploadAzure(ctx context.Context, key string, data []byte) error {
	blobURL := s.azureContainerURL.NewBlockBlobURL(key)
	_, err := azblob.UploadBufferToBlockBlob(ctx, data, blobURL, azblob.UploadToBlockBlobOptions{
		BlockSize:   4 * 1024 * 1024,
		Parallelism: 16,
	})
	return err
}
