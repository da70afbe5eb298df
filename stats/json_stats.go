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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// JSONStats is what we want to report as stats via http
type JSONStats struct {
	*Stats
	sys      SysStats
	exporter *PrometheusExporter
}

// NewJSONStats returns a new JSONStats
func NewJSONStats() *JSONStats {
	return &JSONStats{
		Stats:    NewStats(),
		exporter: NewPrometheusExporter(),
	}
}

// collect refreshes sys stats and pushes all counters to the prometheus registry
func (s *JSONStats) collect(interval time.Duration) {
	sys, err := s.sys.CollectRuntimeStats(interval)
	if err != nil {
		log.Warningf("failed to get system metrics %s", err)
	}
	for k, v := range sys {
		s.SetCounter(k, int64(v))
	}
	for k, v := range s.sys.CollectLoopStats(s.GetCounters(), interval) {
		s.SetCounter(k, int64(v))
	}
	s.exporter.Update(s.GetCounters())
}

// Mux returns the http handlers of the stats server
func (s *JSONStats) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleCountersRequest)
	mux.HandleFunc("/counters", s.handleCountersRequest)
	mux.Handle("/metrics", s.exporter.Handler())
	return mux
}

// Start runs http server until ctx is done
func (s *JSONStats) Start(ctx context.Context, monitoringport int, interval time.Duration) error {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			s.collect(interval)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	addr := fmt.Sprintf(":%d", monitoringport)
	srv := &http.Server{Addr: addr, Handler: s.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Failed to stop http json server: %v", err)
		}
	}()
	log.Infof("Starting http json server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("starting listener: %w", err)
	}
	return nil
}

// handleCountersRequest is a handler used for all http monitoring requests
func (s *JSONStats) handleCountersRequest(w http.ResponseWriter, _ *http.Request) {
	js, err := json.Marshal(s.GetCounters())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(js); err != nil {
		log.Errorf("Failed to reply: %v", err)
	}
}
