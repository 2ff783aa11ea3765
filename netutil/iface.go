package netutil

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
)

// DetectDefaultInterface tries to determine the host's default outbound interface.
// It first uses `ip route show default`, and falls back to /proc/net/route.
func DetectDefaultInterface() (string, error) {
	out, err := exec.Command("ip", "route", "show", "default").Output()
	if err == nil {
		// Example: "default via 192.168.1.1 dev eth0 proto dhcp src 192.168.1.23 metric 100"
		if name := parseRouteDev(string(out)); name != "" {
			return name, nil
		}
	}

	f, err2 := os.Open("/proc/net/route")
	if err2 != nil {
		if err != nil {
			return "", err
		}
		return "", err2
	}
	defer f.Close()
	return parseProcRoute(bufio.NewScanner(f))
}

func parseRouteDev(line string) string {
	parts := strings.Fields(strings.TrimSpace(line))
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "dev" {
			return parts[i+1]
		}
	}
	return ""
}

func parseProcRoute(scanner *bufio.Scanner) (string, error) {
	// Skip header
	if !scanner.Scan() {
		return "", errors.New("empty /proc/net/route")
	}
	for scanner.Scan() {
		// Fields: Iface Destination Gateway Flags RefCnt Use Metric Mask MTU Window IRTT
		fields := strings.Fields(scanner.Text())
		// Destination 00000000 means default route
		if len(fields) >= 2 && fields[1] == "00000000" {
			return fields[0], nil
		}
	}
	return "", errors.New("default interface not found")
}

// InterfaceIPv4 returns the first IPv4 address assigned to the named interface.
func InterfaceIPv4(name string) (net.IP, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok {
			if v4 := ipnet.IP.To4(); v4 != nil {
				return v4, nil
			}
		}
	}
	return nil, fmt.Errorf("no IPv4 address on %s", name)
}

// ShareURL returns the address guests on the LAN can open. When the server
// binds a specific host it is used as-is; wildcard binds resolve to the
// default interface's address.
func ShareURL(bindAddr, port string) (string, error) {
	host := bindAddr
	if host == "" || host == "0.0.0.0" || host == "::" {
		ifname, err := DetectDefaultInterface()
		if err != nil {
			return "", err
		}
		ip, err := InterfaceIPv4(ifname)
		if err != nil {
			return "", err
		}
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, port) + "/", nil
}
