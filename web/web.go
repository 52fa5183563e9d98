// Package web holds the browser front end, compiled into the binary.
package web

import "embed"

// Templates holds the html/template sources rendered by the server.
//
//go:embed templates/*.html
var Templates embed.FS

// Public holds static assets served under /static.
//
//go:embed public/*
var Public embed.FS
