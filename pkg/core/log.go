package core

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/afero"
)

// RawLog yields the commit log as stored
func (r *Repository) RawLog(_ context.Context) ([]byte, error) {
	if !r.IsInitialized() {
		return nil, status.ErrUninitialized
	}
	data, err := afero.ReadFile(r.fs, model.GetPathToLog())
	if err != nil {
		return nil, status.ErrIO.Wrap(fmt.Errorf("reading log: %w", err))
	}
	return data, nil
}

// Log yields the records of the commit log, oldest first
func (r *Repository) Log(ctx context.Context) ([]model.LogRecord, error) {
	data, err := r.RawLog(ctx)
	if err != nil {
		return nil, err
	}

	// log lines have no length limit
	var records []model.LogRecord
	reader := bufio.NewReader(bytes.NewReader(data))
	for lineNo := 1; ; lineNo++ {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, status.ErrIO.Wrap(err)
		}
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			record, perr := model.ParseLogRecord(line)
			if perr != nil {
				return nil, status.ErrSerialization.Wrap(fmt.Errorf("log line %d: %w", lineNo, perr))
			}
			records = append(records, record)
		}
		if err != nil {
			return records, nil
		}
	}
}
