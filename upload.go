package deckly

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/alitto/pond/v2"
	"github.com/zeebo/xxh3"

	"github.com/deckly/deckly-go/apierror"
)

// maxConcurrentReads bounds how many input files are read and hashed at once
// when assembling an upload.
const maxConcurrentReads = 4

// contentHashHeader carries the xxh3 checksum of each uploaded part so the
// server can verify integrity.
const contentHashHeader = "X-Content-Hash"

// filePart is one file prepared for upload: its name, raw bytes, and content
// checksum.
type filePart struct {
	name     string
	content  []byte
	checksum string
}

// fileIDsResponse is the wire shape returned by the upload endpoint.
type fileIDsResponse struct {
	FileIDs []string `json:"file_ids"`
}

// UploadFiles sends the files at the given paths as one multipart request and
// returns the server-assigned file ids, in the same order as the input paths.
// Files are read and checksummed concurrently; the request body is rebuilt
// from disk on every retry attempt, so a file that was briefly unreadable is
// retried along with the send.
//
// A file that cannot be read or sent fails the whole call with
// KindUploadFailed after the retry budget is spent.
func (c *Client) UploadFiles(ctx context.Context, paths []string, reqOpts ...RequestOption) ([]string, error) {
	if len(paths) == 0 {
		return nil, apierror.New(apierror.KindValidation, "no files to upload")
	}

	for _, path := range paths {
		if path == "" {
			return nil, apierror.New(apierror.KindValidation, "file paths must not be empty")
		}
	}

	var rsp fileIDsResponse

	opts := append([]RequestOption{withBodyBuilder(func() (io.Reader, string, error) {
		return multipartBody(ctx, paths)
	})}, reqOpts...)

	err := c.Request(ctx, http.MethodPost, "/files/upload", nil, &rsp, opts...)
	recordUpload(err)

	if err != nil {
		return nil, err
	}

	if len(rsp.FileIDs) != len(paths) {
		return nil, apierror.Newf(apierror.KindResponseMalformed,
			"uploaded %d files but received %d ids", len(paths), len(rsp.FileIDs))
	}

	return rsp.FileIDs, nil
}

// multipartBody reads and hashes every file concurrently, then assembles the
// multipart payload with parts in input order.
func multipartBody(ctx context.Context, paths []string) (io.Reader, string, error) {
	parts, err := readParts(ctx, paths)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, part := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="files"; filename=%q`, part.name))
		header.Set("Content-Type", "application/octet-stream")
		header.Set(contentHashHeader, part.checksum)

		dst, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", apierror.Wrap(apierror.KindUploadFailed,
				fmt.Sprintf("assembling upload for %s: %v", part.name, err), err)
		}

		if _, err := dst.Write(part.content); err != nil {
			return nil, "", apierror.Wrap(apierror.KindUploadFailed,
				fmt.Sprintf("assembling upload for %s: %v", part.name, err), err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", apierror.Wrap(apierror.KindUploadFailed,
			fmt.Sprintf("assembling upload: %v", err), err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// readParts loads the files through a bounded worker pool, preserving input
// order in the returned slice.
func readParts(ctx context.Context, paths []string) ([]filePart, error) {
	pool := pond.NewResultPool[filePart](maxConcurrentReads, pond.WithContext(ctx))
	defer pool.StopAndWait()

	tasks := make([]pond.Result[filePart], len(paths))
	for i, path := range paths {
		tasks[i] = pool.SubmitErr(func() (filePart, error) {
			return readPart(path)
		})
	}

	parts := make([]filePart, len(paths))

	for i, task := range tasks {
		part, err := task.Wait()
		if err != nil {
			return nil, err
		}

		parts[i] = part
	}

	return parts, nil
}

// readPart reads one file and computes its content checksum.
func readPart(path string) (filePart, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return filePart{}, apierror.Wrap(apierror.KindUploadFailed,
			fmt.Sprintf("reading %s: %v", path, err), err)
	}

	return filePart{
		name:     filepath.Base(path),
		content:  content,
		checksum: fmt.Sprintf("%016x", xxh3.Hash(content)),
	}, nil
}
