/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJSONStatsCounters(t *testing.T) {
	s := NewJSONStats()
	s.SetCounter("drive.transitions", 4)

	for _, path := range []string{"/", "/counters"} {
		rec := httptest.NewRecorder()
		s.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var got map[string]int64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, int64(4), got["drive.transitions"])
	}
}

func TestJSONStatsCollect(t *testing.T) {
	s := NewJSONStats()
	s.SetCounter("steering.output", 10)
	s.collect(time.Second)

	c := s.GetCounters()
	require.Contains(t, c, "runtime.cpu.goroutines")
	require.Equal(t, int64(10), c["steering.output"])

	rec := httptest.NewRecorder()
	s.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), "formulaev3_steering_output 10")
}

func TestCollectRuntimeStats(t *testing.T) {
	s := SysStats{}
	first, err := s.CollectRuntimeStats(time.Second)
	require.NoError(t, err)
	require.Contains(t, first, "process.uptime")
	require.NotContains(t, first, "runtime.gc.count.rate.1")

	second, err := s.CollectRuntimeStats(time.Second)
	require.NoError(t, err)
	require.Contains(t, second, "runtime.gc.count.rate.1")
}
