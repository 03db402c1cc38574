package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync"

	"timesheet-sync/core/reconcile"
	"timesheet-sync/core/storage"
	"timesheet-sync/core/utils"

	"github.com/minio/minio-go/v7"
)

// ErrObjectChanged is returned by Flush when the object was replaced after
// it was downloaded. The buffer is discarded and the next Read reloads it.
var ErrObjectChanged = errors.New("sheet object changed since it was read")

// Object is a sheet kept as a CSV object. Edits are buffered in memory
// and uploaded by Flush, conditional on the object being unchanged since
// it was downloaded.
type Object struct {
	client storage.Client
	bucket string
	name   string

	mu     sync.Mutex
	mem    *Memory
	loaded bool
	dirty  bool
	// etag of the downloaded version; empty when unknown.
	etag   string
	exists bool
}

// NewObject creates a sheet backed by bucket/name.
func NewObject(client storage.Client, bucket, name string) *Object {
	return &Object{client: client, bucket: bucket, name: name, mem: NewMemory()}
}

// Read downloads the CSV and returns its rows. Pending edits are read from
// the buffer instead. A missing object reads as an empty sheet.
func (o *Object) Read(ctx context.Context) ([]reconcile.StoredRow, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.dirty {
		o.loaded = false
	}
	if err := o.load(ctx); err != nil {
		return nil, err
	}
	return o.mem.Read(ctx)
}

// Write updates the buffered row at position.
func (o *Object) Write(ctx context.Context, position int, columns []int, values []any) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(ctx); err != nil {
		return err
	}
	if err := o.mem.Write(ctx, position, columns, values); err != nil {
		return err
	}
	o.dirty = true
	return nil
}

// Append adds rows to the buffer.
func (o *Object) Append(ctx context.Context, rows []reconcile.Row) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(ctx); err != nil {
		return err
	}
	if err := o.mem.Append(ctx, rows); err != nil {
		return err
	}
	o.dirty = true
	return nil
}

// Delete removes the buffered row at position.
func (o *Object) Delete(ctx context.Context, position int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(ctx); err != nil {
		return err
	}
	if err := o.mem.Delete(ctx, position); err != nil {
		return err
	}
	o.dirty = true
	return nil
}

// Flush uploads the buffer if it changed since the last load or flush.
// The upload only succeeds if the remote object is still the version that
// was downloaded; otherwise ErrObjectChanged is returned.
func (o *Object) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.dirty {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range o.mem.Rows() {
		if err := w.Write(utils.ToStrings(row)); err != nil {
			return fmt.Errorf("failed to encode sheet: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode sheet: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: "text/csv"}
	switch {
	case o.etag != "":
		opts.SetMatchETag(o.etag)
	case !o.exists:
		opts.SetMatchETagExcept("*")
	}

	info, err := o.client.PutObject(ctx, o.bucket, o.name, bytes.NewReader(buf.Bytes()), int64(buf.Len()), opts)
	if err != nil {
		if isPreconditionFailed(err) {
			o.dirty = false
			o.loaded = false
			return fmt.Errorf("%w: %s/%s", ErrObjectChanged, o.bucket, o.name)
		}
		return fmt.Errorf("failed to upload %s/%s: %w", o.bucket, o.name, err)
	}
	o.dirty = false
	o.loaded = false
	o.etag = info.ETag
	o.exists = true
	return nil
}

func (o *Object) load(ctx context.Context) error {
	if o.loaded {
		return nil
	}

	records, err := o.download(ctx)
	if err != nil {
		return err
	}
	o.dirty = false

	rows := make([]reconcile.Row, len(records))
	for i, rec := range records {
		row := make(reconcile.Row, len(rec))
		for j, cell := range rec {
			row[j] = cell
		}
		rows[i] = row
	}
	o.mem = NewMemory(rows...)
	o.loaded = true
	return nil
}

// download fetches and parses the object, recording its version.
func (o *Object) download(ctx context.Context) ([][]string, error) {
	o.etag, o.exists = "", false

	obj, err := o.client.GetObject(ctx, o.bucket, o.name, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", o.bucket, o.name, err)
	}
	defer obj.Close()

	// minio objects report their version alongside the body.
	if st, ok := obj.(interface{ Stat() (minio.ObjectInfo, error) }); ok {
		info, err := st.Stat()
		if err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to stat %s/%s: %w", o.bucket, o.name, err)
		}
		o.etag = info.ETag
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", o.bucket, o.name, err)
	}
	o.exists = true

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s/%s: %w", o.bucket, o.name, err)
	}
	return records, nil
}

func isNotFound(err error) bool {
	return errorCode(err) == "NoSuchKey"
}

func isPreconditionFailed(err error) bool {
	return errorCode(err) == "PreconditionFailed"
}

func errorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return minio.ToErrorResponse(err).Code
}
