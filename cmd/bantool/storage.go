package main

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/Backblaze/blazer/b2"
	"github.com/dsnet/compress/bzip2"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/ulikunitz/xz"
	xzReader "github.com/xi2/xz"
	"google.golang.org/api/option"
)

var GCSBucket *storage.BucketHandle
var B2Bucket *b2.Bucket

func initializeBucket(outputPath string) error {
	u, err := url.Parse(outputPath)
	if err != nil {
		return err
	}

	switch u.Scheme {
	case "http", "https":
		// nothing to do here
	case "gs":
		if GCSBucket != nil {
			return nil
		}

		serviceAcc := os.Getenv("GCS_SVC_ACC")
		if serviceAcc == "" {
			return errors.New("missing GCS_SVC_ACC for GCS access")
		}

		client, err := storage.NewClient(context.Background(), option.WithCredentialsFile(serviceAcc))
		if err != nil {
			return fmt.Errorf("error creating the GCS client %w", err)
		}

		GCSBucket = client.Bucket(u.Host)
	case "b2":
		if B2Bucket != nil {
			return nil
		}

		accessKey := os.Getenv("B2_KEY_ID")
		secretKey := os.Getenv("B2_APP_KEY")
		if accessKey == "" || secretKey == "" {
			return errors.New("missing required B2 environment variables")
		}

		client, err := b2.NewClient(context.TODO(), accessKey, secretKey)
		if err != nil {
			return err
		}

		B2Bucket, err = client.Bucket(context.TODO(), u.Host)
		if err != nil {
			return err
		}
	default:
		_, err := os.Stat(u.Path)
		if os.IsNotExist(err) {
			return errors.New("path does not exist")
		}
	}

	return nil
}

// Writer for the given file under outputPath, compressed according to the
// extension of the file name
type compressedWriter struct {
	io.Writer
	closers []io.Closer
}

func (cw *compressedWriter) Close() error {
	var firstErr error
	for _, closer := range cw.closers {
		err := closer.Close()
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func putData(fileName, outputPath string) (io.WriteCloser, error) {
	filePath := fmt.Sprintf("%s/%s", strings.TrimSuffix(outputPath, "/"), fileName)

	var writer io.WriteCloser
	u, err := url.Parse(filePath)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "gs":
		writer = GCSBucket.Object(strings.TrimPrefix(u.Path, "/")).NewWriter(context.TODO())
	case "b2":
		dst := strings.TrimPrefix(u.Path, "/")
		writer = B2Bucket.Object(dst).NewWriter(context.TODO())
	default:
		file, err := os.Create(filePath)
		if err != nil {
			return nil, err
		}
		writer = file
	}

	if strings.HasSuffix(fileName, ".xz") {
		xzWriter, err := xz.NewWriter(writer)
		if err != nil {
			writer.Close()
			return nil, err
		}
		return &compressedWriter{
			Writer:  xzWriter,
			closers: []io.Closer{xzWriter, writer},
		}, nil
	} else if strings.HasSuffix(fileName, ".bz2") {
		bz2Writer, err := bzip2.NewWriter(writer, nil)
		if err != nil {
			writer.Close()
			return nil, err
		}
		return &compressedWriter{
			Writer:  bz2Writer,
			closers: []io.Closer{bz2Writer, writer},
		}, nil
	}

	return writer, nil
}

func loadData(pathOpt string) (io.ReadCloser, error) {
	var reader io.ReadCloser

	u, err := url.Parse(pathOpt)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "http", "https":
		resp, err := cleanhttp.DefaultClient().Get(pathOpt)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != 200 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}

		reader = resp.Body
	case "b2":
		src := strings.TrimPrefix(u.Path, "/")
		obj := B2Bucket.Object(src).NewReader(context.TODO())
		obj.ConcurrentDownloads = 20

		reader = obj
	default:
		file, err := os.Open(pathOpt)
		if err != nil {
			return nil, err
		}

		reader = file
	}

	if strings.HasSuffix(pathOpt, "xz") {
		xzReader, err := xzReader.NewReader(reader, 0)
		if err != nil {
			return nil, err
		}
		reader = io.NopCloser(xzReader)
	} else if strings.HasSuffix(pathOpt, "bz2") {
		bz2Reader, err := bzip2.NewReader(reader, nil)
		if err != nil {
			return nil, err
		}
		reader = bz2Reader
	} else if strings.HasSuffix(pathOpt, "gz") {
		zipReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, err
		}
		reader = zipReader
	}

	return reader, err
}
