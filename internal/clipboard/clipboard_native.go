//go:build windows || (cgo && (linux || freebsd || openbsd || netbsd || dragonfly || darwin))

package clipboard

import "golang.design/x/clipboard"

func backendInit() error { return clipboard.Init() }

func backendWrite(png []byte) error {
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

func backendRead() []byte { return clipboard.Read(clipboard.FmtImage) }
