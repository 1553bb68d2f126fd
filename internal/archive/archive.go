// Package archive persists learning-run snapshots so a surprising
// learner output can be replayed against the exact data that produced
// it.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"venue-pulse/internal/config"
)

type Archive struct {
	backend Provider
}

// New selects the backend from config. Provider "none" disables
// archiving entirely and returns nil; callers treat a nil Archive as
// "skip snapshots".
func New(cfg *config.Config) *Archive {
	switch cfg.Archive.Provider {
	case "none", "":
		return nil
	case "local":
		return &Archive{backend: NewLocalProvider(cfg.Archive.LocalPath)}
	default:
		s3Config := &aws.Config{
			Credentials:      credentials.NewStaticCredentials(cfg.Archive.KeyID, cfg.Archive.AppKey, ""),
			Endpoint:         aws.String(cfg.Archive.Endpoint),
			Region:           aws.String(cfg.Archive.Region),
			S3ForcePathStyle: aws.Bool(true),
		}
		sess := session.Must(session.NewSession(s3Config))
		return &Archive{backend: &S3Provider{api: s3.New(sess), bucket: cfg.Archive.Bucket}}
	}
}

// NewWithProvider wires an explicit backend, used by tests.
func NewWithProvider(p Provider) *Archive {
	return &Archive{backend: p}
}

// SaveSnapshot stores one learning run's payload as pretty JSON and
// returns the key it landed under.
func (a *Archive) SaveSnapshot(venueID, runID string, payload any) (string, error) {
	key := fmt.Sprintf("snapshots/%s/%s_%s.json",
		venueID, time.Now().UTC().Format("20060102T150405Z"), runID)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	if err := a.backend.Put(key, bytes.NewReader(data), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

// ListSnapshots returns the keys of every snapshot for a venue.
func (a *Archive) ListSnapshots(venueID string) ([]string, error) {
	return a.backend.List("snapshots/" + venueID + "/")
}

// LoadSnapshot reads one snapshot back.
func (a *Archive) LoadSnapshot(key string) ([]byte, error) {
	obj, err := a.backend.Get(key)
	if err != nil {
		return nil, err
	}
	defer obj.Body.Close()
	return io.ReadAll(obj.Body)
}
