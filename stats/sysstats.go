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
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/process"
)

var procStartTime = time.Now()

// SysStats represents Sys Stats
type SysStats struct {
	memstats *runtime.MemStats
	lastLoop *loopTotals
}

// loopTotals are the scheduler counters summed over all tasks
type loopTotals struct {
	ticks    uint64
	runs     uint64
	overruns uint64
	errors   uint64
}

func sumLoop(counters map[string]int64) *loopTotals {
	t := &loopTotals{ticks: uint64(counters["scheduler.ticks"])}
	for k, v := range counters {
		if !strings.HasPrefix(k, "scheduler.task.") {
			continue
		}
		switch {
		case strings.HasSuffix(k, ".runs"):
			t.runs += uint64(v)
		case strings.HasSuffix(k, ".overruns"):
			t.overruns += uint64(v)
		case strings.HasSuffix(k, ".errors"):
			t.errors += uint64(v)
		}
	}
	return t
}

// setRate is a helper function to make a crude rate/diff
func setRate(name string, counts map[string]uint64, cur, prev uint64, interval time.Duration) {
	if prev > cur {
		return
	}
	secs := uint64(interval.Seconds())
	if secs == 0 {
		return
	}
	counts[fmt.Sprintf("%s.rate.%d", name, secs)] = (cur - prev) / secs
}

// CollectRuntimeStats gathers cpu, mem, gc statistics of the controller process
func (s *SysStats) CollectRuntimeStats(interval time.Duration) (map[string]uint64, error) {
	stats := make(map[string]uint64)
	m := &runtime.MemStats{}
	runtime.ReadMemStats(m)
	lastStats := s.memstats

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	stats["process.uptime"] = uint64(time.Now().Unix() - procStartTime.Unix())

	if val, err := proc.Percent(0); err == nil {
		stats[fmt.Sprintf("process.cpu_pct.avg.%d", int(interval.Seconds()))] = uint64(val * 100)
	}

	if val, err := proc.MemoryInfo(); err == nil {
		stats["process.rss"] = val.RSS
		stats["process.vms"] = val.VMS
	}

	if val, err := proc.NumThreads(); err == nil {
		stats["process.num_threads"] = uint64(val)
	}

	stats["runtime.cpu.goroutines"] = uint64(runtime.NumGoroutine())
	stats["runtime.mem.alloc"] = m.Alloc
	stats["runtime.mem.sys"] = m.Sys
	stats["runtime.mem.heap.inuse"] = m.HeapInuse
	stats["runtime.mem.gc.pause"] = m.PauseNs[(m.NumGC+255)%256]
	stats["runtime.mem.gc.count"] = uint64(m.NumGC)
	if lastStats != nil {
		// GC pauses stall the control loop, so the rate matters more than the total
		setRate("runtime.gc.pause_ns", stats, m.PauseTotalNs, lastStats.PauseTotalNs, interval)
		setRate("runtime.gc.count", stats, uint64(m.NumGC), uint64(lastStats.NumGC), interval)
	}
	s.memstats = m
	return stats, nil
}

// CollectLoopStats derives the control loop health over the last window from the scheduler counters.
// The overrun share is in percent of the task runs of the window.
func (s *SysStats) CollectLoopStats(counters map[string]int64, interval time.Duration) map[string]uint64 {
	stats := make(map[string]uint64)
	cur := sumLoop(counters)
	prev := s.lastLoop
	s.lastLoop = cur
	if prev == nil {
		return stats
	}
	setRate("scheduler.ticks", stats, cur.ticks, prev.ticks, interval)
	setRate("scheduler.runs", stats, cur.runs, prev.runs, interval)
	setRate("scheduler.overruns", stats, cur.overruns, prev.overruns, interval)
	if cur.runs > prev.runs && cur.overruns >= prev.overruns {
		stats["scheduler.overrun_pct"] = (cur.overruns - prev.overruns) * 100 / (cur.runs - prev.runs)
	}
	if cur.errors > 0 {
		stats["scheduler.failed"] = 1
	}
	return stats
}
