package main

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/assert"
	dr "go-portprobe/dns-resolver"
	ps "go-portprobe/port-scanner"
	"testing"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitResolve, exitCode(fmt.Errorf("%w: nowhere.test", dr.ErrResolve)))
	assert.Equal(t, exitRuntime, exitCode(fmt.Errorf("%w: port 81", ps.ErrTaskFailure)))
	assert.Equal(t, exitRuntime, exitCode(context.Canceled))
}

func TestScan_InvalidArguments(t *testing.T) {
	assert.Equal(t, exitUsage, scan(context.Background(), []string{"-p", "100-50"}))
	assert.Equal(t, exitUsage, scan(context.Background(), []string{"-p", "abc"}))
	assert.Equal(t, exitUsage, scan(context.Background(), []string{"-o", "xml"}))
	assert.Equal(t, exitUsage, scan(context.Background(), []string{"-unknown"}))
}
