package server

import (
	"context"
	"errors"
	"testing"
	"time"

	xhttp "KuRelay/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunStopsOnContextCancel(t *testing.T) {
	srv := xhttp.NewServer(nil, nil,
		xhttp.WithHost("127.0.0.1"),
		xhttp.WithPort(0),
		xhttp.WithMetricsPath(""),
	)

	var closed []string
	app := New(srv, nil,
		closerFunc(func() error { closed = append(closed, "a"); return nil }),
		closerFunc(func() error { closed = append(closed, "b"); return errors.New("boom") }),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, []string{"a", "b"}, closed)
}

func TestRunUninitialized(t *testing.T) {
	var app *App
	assert.Error(t, app.Run(context.Background()))
}
