// Package web provides the embedded static assets for rota pages.
//
// The static/ directory is embedded at build time. During development,
// if static/ exists on the filesystem, it is used instead, so the
// stylesheet and page scripts can be edited without rebuilding.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// assets holds the embedded stylesheet, scripts and body fragments.
//
//go:embed static/*
var assets embed.FS

// Stylesheet is the design system shared by every page. It is embedded
// once and never rebuilt per render.
//
//go:embed static/style.css
var Stylesheet string

// GetAssets returns a filesystem containing the page assets.
// In development mode (when devPath exists as a directory) it returns the
// live filesystem. Otherwise it returns the embedded assets.
//
// If devPath is empty, it defaults to "./web/static" (relative to the
// working directory).
func GetAssets(devPath string) fs.FS {
	if devPath == "" {
		devPath = "./web/static"
	}

	if stat, err := os.Stat(devPath); err == nil && stat.IsDir() {
		return os.DirFS(devPath)
	}

	return Embedded()
}

// GetAssetsWithBase returns a filesystem for assets, checking for development
// mode at a path relative to the given base directory.
func GetAssetsWithBase(baseDir string) fs.FS {
	return GetAssets(filepath.Join(baseDir, "web", "static"))
}

// Embedded returns the assets compiled into the binary, ignoring any
// development directory.
func Embedded() fs.FS {
	subFS, err := fs.Sub(assets, "static")
	if err != nil {
		// This should never happen with properly embedded assets
		panic("failed to access embedded web assets: " + err.Error())
	}
	return subFS
}

// ReadFile reads a single asset as a string.
func ReadFile(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("failed to read asset %s: %w", name, err)
	}
	return string(data), nil
}
