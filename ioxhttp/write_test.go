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

package ioxhttp

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lpData = "h2o_temperature,location=santa_monica,state=CA surface_degrees=65.2,bottom_degrees=50.4 1617286224000000000"

type recordingWriter struct {
	dbName string
	body   []byte
	err    error
}

func (w *recordingWriter) Write(_ context.Context, dbName string, body []byte) error {
	w.dbName = dbName
	w.body = append([]byte(nil), body...)
	return w.err
}

func TestHandlerWriteSucceeds(t *testing.T) {
	writer := &recordingWriter{}
	h := NewHandler(writer, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write?bucket=MyBucket&org=MyOrg", bytes.NewBufferString(lpData))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "MyOrg_MyBucket", writer.dbName)
	assert.Equal(t, lpData, string(writer.body))
}

func TestHandlerWriteAcceptsGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(lpData))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	writer := &recordingWriter{}
	h := NewHandler(writer, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write?bucket=MyBucket&org=MyOrg", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, lpData, string(writer.body))
}

func TestHandlerMissingQueryStringRejected(t *testing.T) {
	h := NewHandler(&recordingWriter{}, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write", bytes.NewBufferString(lpData))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerMissingBucketRejected(t *testing.T) {
	h := NewHandler(&recordingWriter{}, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write?org=MyOrg", bytes.NewBufferString(lpData))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerWriteToUnknownDatabaseIs404(t *testing.T) {
	writer := &recordingWriter{err: ErrDatabaseNotFound}
	h := NewHandler(writer, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write?bucket=NotMyBucket&org=MyOrg", bytes.NewBufferString("cpu bar=1 10"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerWriteFailureIs500(t *testing.T) {
	writer := &recordingWriter{err: errors.New("boom")}
	h := NewHandler(writer, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write?bucket=MyBucket&org=MyOrg", bytes.NewBufferString(lpData))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerEmptyBodyIsNoContentWithoutCallingWriter(t *testing.T) {
	writer := &recordingWriter{}
	h := NewHandler(writer, nil, nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v2/write?bucket=MyBucket&org=MyOrg", bytes.NewBufferString(""))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, writer.dbName)
}

func TestHandlerWrongMethodRejected(t *testing.T) {
	h := NewHandler(&recordingWriter{}, nil, nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v2/write?bucket=MyBucket&org=MyOrg", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
