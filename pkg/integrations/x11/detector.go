package x11

import (
	"encoding/binary"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"

	"github.com/phonewatch/phonewatch/pkg/window"
)

// Detector implements window.Detector for X11 using the EWMH client list
type Detector struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

// NewDetector connects to the X server and interns the atoms needed for
// window enumeration
func NewDetector() (*Detector, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root

	d := &Detector{
		conn:  conn,
		root:  root,
		atoms: make(map[string]xproto.Atom),
	}

	atomNames := []string{
		"_NET_CLIENT_LIST",
		"_NET_WM_NAME",
		"WM_NAME",
		"WM_CLASS",
		"UTF8_STRING",
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		d.atoms[name] = reply.Atom
	}

	return d, nil
}

// IsAvailable checks if an X display is reachable
func (d *Detector) IsAvailable() bool {
	return d.conn != nil && os.Getenv("DISPLAY") != ""
}

// Platform returns "x11"
func (d *Detector) Platform() string {
	return "x11"
}

// ListOpenWindows returns every top-level client window known to the
// window manager
func (d *Detector) ListOpenWindows() ([]window.Info, error) {
	ids, err := d.clientList()
	if err != nil {
		return nil, err
	}

	windows := make([]window.Info, 0, len(ids))
	for _, id := range ids {
		title := d.windowName(id)
		instance, class := d.windowClass(id)

		appName := instance
		if appName == "" {
			appName = class
		}
		if appName == "" && title == "" {
			continue
		}

		windows = append(windows, window.Info{
			AppName: appName,
			Title:   title,
		})
	}

	return windows, nil
}

// Close shuts down the X connection
func (d *Detector) Close() error {
	if d.conn != nil {
		d.conn.Close()
		d.conn = nil
	}
	return nil
}

func (d *Detector) getProperty(win xproto.Window, atom, atomType xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(d.conn, false, win, atom, atomType, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return reply.Value, nil
}

// clientList reads _NET_CLIENT_LIST from the root window. The property is
// an array of 32-bit window IDs maintained by EWMH-compliant window managers.
func (d *Detector) clientList() ([]xproto.Window, error) {
	data, err := d.getProperty(d.root, d.atoms["_NET_CLIENT_LIST"], xproto.AtomWindow, 1024)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read _NET_CLIENT_LIST")
	}

	ids := make([]xproto.Window, 0, len(data)/4)
	for i := 0; i+4 <= len(data); i += 4 {
		ids = append(ids, xproto.Window(binary.LittleEndian.Uint32(data[i:])))
	}
	return ids, nil
}

func (d *Detector) windowName(win xproto.Window) string {
	data, err := d.getProperty(win, d.atoms["_NET_WM_NAME"], d.atoms["UTF8_STRING"], 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	data, err = d.getProperty(win, d.atoms["WM_NAME"], xproto.AtomString, 256)
	if err == nil && len(data) > 0 {
		return strings.TrimRight(string(data), "\x00")
	}

	return ""
}

func (d *Detector) windowClass(win xproto.Window) (instance, class string) {
	data, err := d.getProperty(win, d.atoms["WM_CLASS"], xproto.AtomString, 256)
	if err != nil || len(data) == 0 {
		return "", ""
	}

	parts := strings.Split(strings.TrimRight(string(data), "\x00"), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}
