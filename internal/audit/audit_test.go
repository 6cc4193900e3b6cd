package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/farmkit/internal/lifecycle"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestRecorder_WritesEntry(t *testing.T) {
	t.Parallel()
	api := &fakeS3{}
	rec := NewRecorder(api, "farm-audit", logr.Discard())
	rec.now = func() time.Time {
		return time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	}

	rec.Record(context.Background(), lifecycle.Event{
		RequestType:       lifecycle.RequestCreate,
		RequestID:         "req-1",
		StackID:           "stack-1",
		LogicalResourceID: "RenderQueueCert",
	}, lifecycle.Response{
		Status:             lifecycle.StatusSuccess,
		PhysicalResourceID: "phys-1",
		Data:               map[string]string{"CertificateArn": "arn:cert-1"},
	})

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "farm-audit", *in.Bucket)
	assert.Equal(t, "audit/2024/06/15/103000-req-1.json", *in.Key)

	body, err := io.ReadAll(in.Body)
	require.NoError(t, err)
	var entry Entry
	require.NoError(t, json.Unmarshal(body, &entry))
	assert.Equal(t, "Create", entry.RequestType)
	assert.Equal(t, "SUCCESS", entry.Status)
	assert.Equal(t, "arn:cert-1", entry.Data["CertificateArn"])
}

func TestRecorder_WriteFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	api := &fakeS3{err: errors.New("bucket gone")}
	rec := NewRecorder(api, "farm-audit", logr.Discard())

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), lifecycle.Event{RequestID: "req-1"}, lifecycle.Response{})
	})
	assert.Len(t, api.inputs, 1)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), lifecycle.Event{}, lifecycle.Response{})
	})
}
