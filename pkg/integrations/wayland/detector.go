package wayland

import (
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/phonewatch/phonewatch/pkg/window"
)

// Detector implements window.Detector for Wayland compositors that expose
// a client list. Sway (swaymsg) and Hyprland (hyprctl) are supported;
// GNOME Wayland has no unprivileged enumeration API.
type Detector struct {
	hasSwaymsg bool
	hasHyprctl bool
}

// NewDetector creates a new Wayland detector
func NewDetector() *Detector {
	d := &Detector{}
	d.hasSwaymsg = commandExists("swaymsg")
	d.hasHyprctl = commandExists("hyprctl")
	return d
}

func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsAvailable checks if a supported compositor tool is present
func (d *Detector) IsAvailable() bool {
	return d.hasSwaymsg || d.hasHyprctl
}

// Platform returns "wayland"
func (d *Detector) Platform() string {
	return "wayland"
}

// ListOpenWindows returns every window the compositor reports
func (d *Detector) ListOpenWindows() ([]window.Info, error) {
	if d.hasSwaymsg {
		return d.listWindowsSway()
	}
	if d.hasHyprctl {
		return d.listWindowsHyprland()
	}
	return nil, fmt.Errorf("no wayland enumeration tool available (swaymsg or hyprctl required)")
}

// Close is a no-op; the detector holds no resources
func (d *Detector) Close() error {
	return nil
}

type swayNode struct {
	Type          string     `json:"type"`
	Name          string     `json:"name"`
	AppID         string     `json:"app_id"`
	Nodes         []swayNode `json:"nodes"`
	FloatingNodes []swayNode `json:"floating_nodes"`
	WindowProps   *struct {
		Class    string `json:"class"`
		Instance string `json:"instance"`
	} `json:"window_properties"`
}

func (d *Detector) listWindowsSway() ([]window.Info, error) {
	output, err := exec.Command("swaymsg", "-t", "get_tree").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute swaymsg: %w", err)
	}

	var root swayNode
	if err := json.Unmarshal(output, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sway tree: %w", err)
	}

	var windows []window.Info
	collectSwayWindows(&root, &windows)
	return windows, nil
}

func collectSwayWindows(node *swayNode, out *[]window.Info) {
	if node.Type == "con" || node.Type == "floating_con" {
		appName := node.AppID
		if appName == "" && node.WindowProps != nil {
			// XWayland windows carry WM_CLASS instead of an app_id
			appName = node.WindowProps.Instance
			if appName == "" {
				appName = node.WindowProps.Class
			}
		}
		if appName != "" || node.Name != "" {
			*out = append(*out, window.Info{
				AppName: appName,
				Title:   node.Name,
			})
		}
	}

	for i := range node.Nodes {
		collectSwayWindows(&node.Nodes[i], out)
	}
	for i := range node.FloatingNodes {
		collectSwayWindows(&node.FloatingNodes[i], out)
	}
}

type hyprlandClient struct {
	Class string `json:"class"`
	Title string `json:"title"`
}

func (d *Detector) listWindowsHyprland() ([]window.Info, error) {
	output, err := exec.Command("hyprctl", "clients", "-j").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute hyprctl: %w", err)
	}

	var clients []hyprlandClient
	if err := json.Unmarshal(output, &clients); err != nil {
		return nil, fmt.Errorf("failed to parse hyprctl clients: %w", err)
	}

	windows := make([]window.Info, 0, len(clients))
	for _, c := range clients {
		windows = append(windows, window.Info{
			AppName: c.Class,
			Title:   c.Title,
		})
	}
	return windows, nil
}
