// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package debuglog sets up Logrus for entail's commands: UTC timestamps with
// microseconds, caller file and line relative to the module root, and Debug
// level output only when asked for.
package debuglog

import (
	"io"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls Configure. The zero value logs at Info level to the
// logger's existing output.
type Options struct {
	// Verbose enables Debug level messages, such as per-pass progress.
	Verbose bool
	// Output replaces the logger's output if set.
	Output io.Writer
	// Logger is the logger to set up. If nil, the standard Logrus logger is
	// used.
	Logger *logrus.Logger
}

// Configure sets up the logger. It may be called more than once, but not
// concurrently.
func Configure(opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Output != nil {
		logger.SetOutput(opts.Output)
	}
	logger.SetReportCaller(true)
	logger.ReplaceHooks(make(logrus.LevelHooks))
	logger.AddHook(entryHook{prefix: moduleRoot()})
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:             true,
		TimestampFormat:           "2006-01-02 15:04:05.000000 MST",
		EnvironmentOverrideColors: true,
	})
	level := logrus.InfoLevel
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	logger.WithField("verbose", opts.Verbose).Debug("Configured logging")
}

// moduleRoot returns the directory holding the module's source, including
// the trailing slash, or "" if it can't be determined.
func moduleRoot() string {
	const localPath = "util/debuglog/setup.go"
	_, file, _, ok := runtime.Caller(0)
	if !ok || !strings.HasSuffix(file, localPath) {
		return ""
	}
	return file[:len(file)-len(localPath)]
}

// entryHook converts each entry's time to UTC and strips the module root
// from its caller's file name.
type entryHook struct {
	prefix string
}

func (entryHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h entryHook) Fire(entry *logrus.Entry) error {
	entry.Time = entry.Time.UTC()
	if entry.HasCaller() && h.prefix != "" {
		entry.Caller.File = strings.TrimPrefix(entry.Caller.File, h.prefix)
	}
	return nil
}
