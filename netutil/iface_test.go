package netutil

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRouteDev(t *testing.T) {
	assert.Equal(t, "eth0", parseRouteDev("default via 192.168.1.1 dev eth0 proto dhcp src 192.168.1.23 metric 100\n"))
	assert.Equal(t, "", parseRouteDev(""))
	assert.Equal(t, "", parseRouteDev("default via 10.0.0.1 dev"))
}

func TestParseProcRoute(t *testing.T) {
	table := "Iface\tDestination\tGateway\tFlags\tRefCnt\tUse\tMetric\tMask\tMTU\tWindow\tIRTT\n" +
		"wlan0\t0000A8C0\t00000000\t0001\t0\t0\t600\t00FFFFFF\t0\t0\t0\n" +
		"wlan0\t00000000\t0101A8C0\t0003\t0\t0\t600\t00000000\t0\t0\t0\n"
	name, err := parseProcRoute(bufio.NewScanner(strings.NewReader(table)))
	require.NoError(t, err)
	assert.Equal(t, "wlan0", name)

	_, err = parseProcRoute(bufio.NewScanner(strings.NewReader("")))
	assert.Error(t, err)

	_, err = parseProcRoute(bufio.NewScanner(strings.NewReader("Iface\tDestination\nlo\t0000007F\n")))
	assert.ErrorContains(t, err, "not found")
}

func TestShareURLWithExplicitHost(t *testing.T) {
	url, err := ShareURL("192.168.1.23", "60000")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.23:60000/", url)

	url, err = ShareURL("localhost", "8080")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", url)
}
