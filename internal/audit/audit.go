// Package audit writes a best-effort trail of lifecycle invocations to
// an object store bucket. The trail is operational convenience, not a
// correctness dependency: a failed write is logged and swallowed so it
// can never turn a successful lifecycle operation into a failure.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-logr/logr"

	"github.com/imamik/farmkit/internal/lifecycle"
)

// S3API is the slice of the S3 client the recorder uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Entry is one recorded invocation.
type Entry struct {
	Timestamp          time.Time         `json:"timestamp"`
	RequestType        string            `json:"requestType"`
	RequestID          string            `json:"requestId"`
	StackID            string            `json:"stackId"`
	LogicalResourceID  string            `json:"logicalResourceId"`
	PhysicalResourceID string            `json:"physicalResourceId"`
	Status             string            `json:"status"`
	Reason             string            `json:"reason,omitempty"`
	Data               map[string]string `json:"data,omitempty"`
}

// Recorder appends audit entries to a bucket. A nil Recorder is valid
// and records nothing, so callers need no conditional wiring.
type Recorder struct {
	api    S3API
	bucket string
	log    logr.Logger

	now func() time.Time
}

// NewRecorder builds a Recorder writing to the given bucket.
func NewRecorder(api S3API, bucket string, log logr.Logger) *Recorder {
	return &Recorder{
		api:    api,
		bucket: bucket,
		log:    log,
		now:    time.Now,
	}
}

// Record writes one entry for the event and its terminal response.
// Failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, event lifecycle.Event, resp lifecycle.Response) {
	if r == nil {
		return
	}

	ts := r.now().UTC()
	entry := Entry{
		Timestamp:          ts,
		RequestType:        string(event.RequestType),
		RequestID:          event.RequestID,
		StackID:            event.StackID,
		LogicalResourceID:  event.LogicalResourceID,
		PhysicalResourceID: resp.PhysicalResourceID,
		Status:             string(resp.Status),
		Reason:             resp.Reason,
		Data:               resp.Data,
	}

	body, err := json.Marshal(entry)
	if err != nil {
		r.log.Info("WARNING: failed to encode audit entry", "error", err)
		return
	}

	key := fmt.Sprintf("audit/%s/%s-%s.json",
		ts.Format("2006/01/02"), ts.Format("150405"), event.RequestID)
	_, err = r.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		r.log.Info("WARNING: failed to write audit entry", "bucket", r.bucket, "key", key, "error", err)
		return
	}
	r.log.V(1).Info("audit entry written", "key", key)
}
