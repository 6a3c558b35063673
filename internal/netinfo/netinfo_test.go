package netinfo

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		kind string
		prio int
	}{
		{"ztabcdef01", "ZeroTier VPN", 1},
		{"tun0", "VPN/Tunnel", 1},
		{"wg0", "VPN/Tunnel", 1},
		{"eth0", "Ethernet", 2},
		{"enp3s0", "Ethernet", 2},
		{"wlan0", "WiFi", 3},
		{"wlp2s0", "WiFi", 3},
		{"docker0", "Docker", 6},
		{"br-19f3a2", "Bridge", 7},
		{"virbr0", "Unknown", 5},
	}

	for _, tt := range tests {
		kind, prio := classify(tt.name)
		if kind != tt.kind || prio != tt.prio {
			t.Errorf("classify(%q) = %q, %d, want %q, %d", tt.name, kind, prio, tt.kind, tt.prio)
		}
	}
}

func TestBestEmpty(t *testing.T) {
	if Best(nil) != nil {
		t.Fatal("Best(nil) should be nil")
	}
}

func TestBestPicksFirst(t *testing.T) {
	ifaces := []Interface{
		{Name: "zt0", IP: "10.147.17.5", Type: "ZeroTier VPN", Priority: 1},
		{Name: "eth0", IP: "192.168.1.10", Type: "Ethernet", Priority: 2},
	}
	best := Best(ifaces)
	if best == nil || best.Name != "zt0" {
		t.Fatalf("Best = %+v", best)
	}
}
