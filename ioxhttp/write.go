// Copyright 2024 The ChronoFrame Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ioxhttp implements the line-protocol write endpoint's HTTP
// boundary, ported from influxdb_ioxd/http/write.rs. Line-protocol
// parsing and record-batch construction are out of scope here; the
// handler only maps the request onto a database name and hands the raw
// body to an injected Writer.
package ioxhttp

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// ErrDatabaseNotFound is returned by Writer.Write when dbName does not
// name a known database, distinguishing a 404 from any other write
// failure.
var ErrDatabaseNotFound = errors.New("database not found")

// Writer accepts a raw line-protocol body for a resolved database
// name. Everything past that — parsing lines, building batches,
// routing into the catalog's mutable buffers — is the caller's
// concern.
type Writer interface {
	Write(ctx context.Context, dbName string, body []byte) error
}

// Handler serves POST /api/v2/write?org=...&bucket=....
type Handler struct {
	writer         Writer
	logger         *zap.Logger
	metrics        *Registry
	maxRequestSize int64
}

// NewHandler builds a write Handler backed by writer. logger and
// metrics may be nil (a no-op logger and disabled metrics,
// respectively). maxRequestSize bounds the decompressed body size;
// zero or negative means unbounded.
func NewHandler(writer Writer, logger *zap.Logger, metrics *Registry, maxRequestSize int64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{writer: writer, logger: logger, metrics: metrics, maxRequestSize: maxRequestSize}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.metrics.recordRequest("client_error")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.RawQuery
	if query == "" {
		h.metrics.recordRequest("client_error")
		http.Error(w, "expected query string in request, but none was provided", http.StatusBadRequest)
		return
	}

	values := r.URL.Query()
	org := values.Get("org")
	bucket := values.Get("bucket")
	if org == "" || bucket == "" {
		h.metrics.recordRequest("client_error")
		http.Error(w, "invalid query string: org and bucket are required", http.StatusBadRequest)
		return
	}
	dbName := org + "_" + bucket

	body, err := h.readBody(r)
	if err != nil {
		h.metrics.recordRequest("client_error")
		http.Error(w, "error reading request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(body) == 0 {
		h.logger.Debug("nothing to write", zap.String("db_name", dbName))
		h.metrics.recordRequest("ok")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	err = h.writer.Write(r.Context(), dbName, body)
	switch {
	case err == nil:
		h.logger.Debug("inserted lines into database",
			zap.String("db_name", dbName), zap.Int("body_size", len(body)))
		h.metrics.recordRequest("ok")
		h.metrics.recordIngestBytes(dbName, "ok", len(body))
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrDatabaseNotFound):
		h.logger.Debug("database not found", zap.String("db_name", dbName))
		h.metrics.recordRequest("client_error")
		http.Error(w, "database "+dbName+" not found", http.StatusNotFound)
	default:
		h.logger.Debug("error writing lines", zap.String("db_name", dbName), zap.Error(err))
		h.metrics.recordRequest("server_error")
		h.metrics.recordIngestBytes(dbName, "error", len(body))
		http.Error(w, "error writing points: "+err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) readBody(r *http.Request) ([]byte, error) {
	var reader io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	if h.maxRequestSize > 0 {
		reader = io.LimitReader(reader, h.maxRequestSize+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if h.maxRequestSize > 0 && int64(len(body)) > h.maxRequestSize {
		return nil, errors.New("request body exceeds maximum size")
	}
	return body, nil
}
