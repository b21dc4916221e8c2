package web

import "embed"

//go:generate go tool templ generate -path templates

// StaticFS holds the embedded stylesheet and the feed renderer script.
//
//go:embed static/*
var StaticFS embed.FS
