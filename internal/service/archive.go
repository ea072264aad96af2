// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olegiv/instcms/internal/cache"
	"github.com/olegiv/instcms/internal/model"
	"github.com/olegiv/instcms/internal/store"
)

// ArchiveMonth is the number of publications in one month.
type ArchiveMonth struct {
	Month int64 `json:"month"`
	Count int64 `json:"count"`
}

// ArchiveYear groups the months of one year, newest first.
type ArchiveYear struct {
	Year   int64
	Months []ArchiveMonth
}

// Archive is a year to month-list mapping ordered newest year first.
// It marshals as a JSON object whose keys keep that order.
type Archive []ArchiveYear

// MarshalJSON writes {"2024":[{"month":3,"count":1}],"2023":[...]}.
func (a Archive) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, y := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatInt(y.Year, 10))
		buf.WriteString(`":`)
		months, err := json.Marshal(y.Months)
		if err != nil {
			return nil, err
		}
		buf.Write(months)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GroupArchive folds flat (year, month, count) rows into an Archive. Rows
// must already be ordered year DESC, month DESC, as ArchiveCounts returns them.
func GroupArchive(rows []store.ArchiveCount) Archive {
	out := Archive{}
	for _, r := range rows {
		if n := len(out); n == 0 || out[n-1].Year != r.Year {
			out = append(out, ArchiveYear{Year: r.Year})
		}
		last := &out[len(out)-1]
		last.Months = append(last.Months, ArchiveMonth{Month: r.Month, Count: r.Count})
	}
	return out
}

// ArchiveService serves publication archives, optionally through a cache.
// Only the flat rows are cached; grouping is repeated per request.
type ArchiveService struct {
	queries *store.Queries
	cache   *cache.TypedCache[[]store.ArchiveCount]
	backend cache.Cacher
}

// NewArchiveService creates an ArchiveService. c may be nil.
func NewArchiveService(db *sql.DB, c cache.Cacher, ttlSeconds int) *ArchiveService {
	return &ArchiveService{
		queries: store.New(db),
		cache:   cache.NewTypedCache[[]store.ArchiveCount](c, secondsToDuration(ttlSeconds)),
		backend: c,
	}
}

// Archive returns the grouped archive of a publication kind.
func (s *ArchiveService) Archive(ctx context.Context, kind model.PublicationKind) (Archive, error) {
	rows, err := s.cache.GetOrSet(ctx, cache.ArchiveKey(kind.Table()), func() (*[]store.ArchiveCount, error) {
		rows, err := s.queries.ArchiveCounts(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("loading %s archive: %w", kind, err)
		}
		return &rows, nil
	})
	if err != nil {
		return nil, err
	}
	return GroupArchive(*rows), nil
}

// Invalidate drops the cached archive of kind. Call after any write to it.
func (s *ArchiveService) Invalidate(ctx context.Context, kind model.PublicationKind) {
	cache.Invalidate(ctx, s.backend, cache.ArchiveKey(kind.Table()))
}
