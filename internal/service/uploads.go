// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/olegiv/instcms/internal/imaging"
	"github.com/olegiv/instcms/internal/util"
)

// Upload kinds accepted by UploadService.Save.
const (
	UploadImage    = "image"
	UploadDocument = "document"
)

// Upload errors surfaced to clients as 400.
var (
	ErrUploadTooLarge = errors.New("file exceeds the maximum upload size")
	ErrUploadType     = errors.New("file type is not allowed")
	ErrUploadEmpty    = errors.New("file is empty")
	ErrUploadKind     = errors.New("kind must be image or document")
)

var documentTypes = []string{"application/pdf"}

// StoredFile describes a saved upload. Paths are public URL paths under
// /uploads.
type StoredFile struct {
	Path          string     `json:"path"`
	ThumbnailPath string     `json:"thumbnail_path,omitempty"`
	MimeType      string     `json:"mime_type"`
	Size          int64      `json:"size"`
	Width         int        `json:"width,omitempty"`
	Height        int        `json:"height,omitempty"`
	TakenAt       *time.Time `json:"taken_at,omitempty"`
	OriginalName  string     `json:"original_name"`
}

// UploadService writes uploads to <root>/<yyyy>/<mm>/<uuid>.<ext>.
type UploadService struct {
	root      string
	maxBytes  int64
	processor *imaging.Processor
	now       func() time.Time
}

// NewUploadService creates an UploadService rooted at root.
func NewUploadService(root string, maxBytes int64, processor *imaging.Processor) *UploadService {
	return &UploadService{
		root:      root,
		maxBytes:  maxBytes,
		processor: processor,
		now:       time.Now,
	}
}

// Save sniffs r, checks it against kind, processes images and writes the
// result to disk. kind may be empty, in which case it is inferred.
func (s *UploadService) Save(r io.Reader, originalName, kind string) (*StoredFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrUploadEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrUploadTooLarge
	}

	detected := mimetype.Detect(data)
	isImage := imaging.IsImage(detected.String())
	isDoc := detected.Is(documentTypes[0])

	switch kind {
	case "":
	case UploadImage:
		if !isImage {
			return nil, ErrUploadType
		}
	case UploadDocument:
		if !isDoc {
			return nil, ErrUploadType
		}
	default:
		return nil, ErrUploadKind
	}
	if !isImage && !isDoc {
		return nil, ErrUploadType
	}

	now := s.now().UTC()
	year, month := now.Format("2006"), now.Format("01")
	id := uuid.NewString()
	name := util.CleanUploadName(originalName)
	if name == "" {
		name = id
	}

	if isDoc {
		rel, err := s.write(year, month, id+".pdf", data)
		if err != nil {
			return nil, err
		}
		return &StoredFile{
			Path:         rel,
			MimeType:     "application/pdf",
			Size:         int64(len(data)),
			OriginalName: name,
		}, nil
	}

	res, err := s.processor.Process(data, detected.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadType, err)
	}

	rel, err := s.write(year, month, id+"."+res.Ext, res.Data)
	if err != nil {
		return nil, err
	}
	thumbRel, err := s.write(year, month, id+"-thumb."+res.Ext, res.Thumbnail)
	if err != nil {
		return nil, err
	}

	sf := &StoredFile{
		Path:          rel,
		ThumbnailPath: thumbRel,
		MimeType:      res.MimeType,
		Size:          int64(len(res.Data)),
		Width:         res.Width,
		Height:        res.Height,
		OriginalName:  name,
	}
	if !res.TakenAt.IsZero() {
		t := res.TakenAt
		sf.TakenAt = &t
	}
	return sf, nil
}

// write stores data and returns its public path.
func (s *UploadService) write(year, month, name string, data []byte) (string, error) {
	dir, err := util.JoinWithin(s.root, year, month)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}
	full, err := util.JoinWithin(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}
	return path.Join("/uploads", year, month, name), nil
}

// MaxBytes is the largest accepted upload.
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}
