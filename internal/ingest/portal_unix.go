//go:build linux || freebsd || openbsd || netbsd || dragonfly

package ingest

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

var portalHandleToken = newPortalHandleToken

func portalCapture(ctx context.Context, interactive bool) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, "org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalScreenshotOptions(interactive))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, errors.New("portal screenshot: bus closed")
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			return portalResult(sig.Body)
		}
	}
}

func portalResult(body []interface{}) (*image.RGBA, error) {
	if len(body) < 2 {
		return nil, errors.New("portal screenshot: short response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return nil, fmt.Errorf("portal screenshot cancelled (code %d)", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, errors.New("portal screenshot: malformed response")
	}
	uriVar, ok := res["uri"]
	if !ok {
		return nil, errors.New("portal screenshot: response missing image data")
	}
	uri, _ := uriVar.Value().(string)
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("portal screenshot: unexpected uri %q", uri)
	}
	img, err := loadCapture(u.Path)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	return img, nil
}

func newPortalHandleToken() string {
	return fmt.Sprintf("pinmark_%d", time.Now().UnixNano())
}

func portalScreenshotOptions(interactive bool) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(interactive),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"modal":        dbus.MakeVariant(interactive),
	}
}

// loadCapture decodes the file the portal wrote and removes it.
func loadCapture(path string) (*image.RGBA, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, err)
		}
	}()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
