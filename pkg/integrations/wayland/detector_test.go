package wayland

import (
	"encoding/json"
	"testing"

	"github.com/phonewatch/phonewatch/pkg/window"
)

const swayTreeSample = `{
	"type": "root",
	"name": "root",
	"nodes": [
		{
			"type": "output",
			"name": "eDP-1",
			"nodes": [
				{
					"type": "workspace",
					"name": "1",
					"nodes": [
						{
							"type": "con",
							"name": "Instagram - Mozilla Firefox",
							"app_id": "firefox",
							"nodes": []
						},
						{
							"type": "con",
							"name": "legacy app",
							"app_id": "",
							"window_properties": {
								"class": "Steam",
								"instance": "steamwebhelper"
							},
							"nodes": []
						}
					],
					"floating_nodes": [
						{
							"type": "floating_con",
							"name": "Picture-in-Picture",
							"app_id": "firefox",
							"nodes": []
						}
					]
				}
			]
		}
	]
}`

func TestCollectSwayWindows(t *testing.T) {
	var root swayNode
	if err := json.Unmarshal([]byte(swayTreeSample), &root); err != nil {
		t.Fatalf("failed to parse sample tree: %v", err)
	}

	var result []window.Info
	collectSwayWindows(&root, &result)

	if len(result) != 3 {
		t.Fatalf("collected %d windows, want 3", len(result))
	}

	if result[0].AppName != "firefox" || result[0].Title != "Instagram - Mozilla Firefox" {
		t.Errorf("result[0] = %+v", result[0])
	}

	// XWayland window falls back to WM_CLASS instance
	if result[1].AppName != "steamwebhelper" {
		t.Errorf("result[1].AppName = %q, want steamwebhelper", result[1].AppName)
	}

	// Floating windows are included
	if result[2].Title != "Picture-in-Picture" {
		t.Errorf("result[2].Title = %q, want Picture-in-Picture", result[2].Title)
	}
}

func TestHyprlandClientParsing(t *testing.T) {
	sample := `[
		{"class": "firefox", "title": "Instagram - Mozilla Firefox"},
		{"class": "kitty", "title": "~"}
	]`

	var clients []hyprlandClient
	if err := json.Unmarshal([]byte(sample), &clients); err != nil {
		t.Fatalf("failed to parse sample clients: %v", err)
	}

	if len(clients) != 2 {
		t.Fatalf("parsed %d clients, want 2", len(clients))
	}
	if clients[0].Class != "firefox" {
		t.Errorf("clients[0].Class = %q, want firefox", clients[0].Class)
	}
}

func TestPlatform(t *testing.T) {
	if got := NewDetector().Platform(); got != "wayland" {
		t.Errorf("Platform() = %s, want wayland", got)
	}
}
