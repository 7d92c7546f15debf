package engine

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routelab/fwdsim/internal/logger"
	"github.com/routelab/fwdsim/internal/table"
)

func testTables(t *testing.T) ([]table.InterfaceEntry, []table.RouteEntry) {
	t.Helper()
	log := logger.New("error", true)

	ifaces, err := table.LoadInterfaces(strings.NewReader(strings.Join([]string{
		"eth0 10.0.0.1/24",
		"eth1 192.168.1.1/24",
	}, "\n")), log)
	require.NoError(t, err)

	routes, err := table.LoadRoutes(strings.NewReader(strings.Join([]string{
		"10.1.0.0/16 192.168.1.9",
		"172.16.0.0/12 10.99.0.1", // next hop on no attached subnet
		"0.0.0.0/0 192.168.1.254",
	}, "\n")), log)
	require.NoError(t, err)

	return ifaces, routes
}

const testInput = `# destinations
10.0.0.5

10.1.2.3
172.16.5.5
8.8.8.8
not.an.address
300.1.1.1
  # indented comment
10.0.0.77
`

var wantOutput = strings.Join([]string{
	"Packet now being sent to destination 10.0.0.5, leaving router from interface eth0",
	"Packet destination is 10.1.2.3, leaving router from interface eth1 to next hop 192.168.1.9",
	"Destination 172.16.5.5 is unreachable.",
	"Packet destination is 8.8.8.8, leaving router from interface eth1 to next hop 192.168.1.254",
	"Packet now being sent to destination 10.0.0.77, leaving router from interface eth0",
	"",
}, "\n")

func TestRun(t *testing.T) {
	ifaces, routes := testTables(t)
	eng := New(ifaces, routes, logger.New("error", true))

	var out bytes.Buffer
	err := eng.Run(context.Background(), strings.NewReader(testInput), &out)
	require.NoError(t, err)
	assert.Equal(t, wantOutput, out.String())

	processed, direct, forwarded, unreachable, skipped := eng.Metrics().Snapshot()
	assert.Equal(t, 5, processed)
	assert.Equal(t, 2, direct)
	assert.Equal(t, 2, forwarded)
	assert.Equal(t, 1, unreachable)
	assert.Equal(t, 2, skipped, "the two unparsable addresses are skipped, not fatal")
}

func TestRunConcurrentMatchesSerial(t *testing.T) {
	ifaces, routes := testTables(t)

	for _, poolSize := range []int{2, 4, 16} {
		eng := New(ifaces, routes, logger.New("error", true))
		var out bytes.Buffer
		err := eng.RunConcurrent(context.Background(), strings.NewReader(testInput), &out, poolSize)
		require.NoError(t, err)
		assert.Equal(t, wantOutput, out.String(), "pool size %d must produce the serial output byte for byte", poolSize)

		processed, _, _, _, skipped := eng.Metrics().Snapshot()
		assert.Equal(t, 5, processed)
		assert.Equal(t, 2, skipped)
	}
}

func TestRunConcurrentFallsBackToSerial(t *testing.T) {
	ifaces, routes := testTables(t)
	eng := New(ifaces, routes, logger.New("error", true))

	var out bytes.Buffer
	err := eng.RunConcurrent(context.Background(), strings.NewReader(testInput), &out, 1)
	require.NoError(t, err)
	assert.Equal(t, wantOutput, out.String())
}

func TestRunEmptyInput(t *testing.T) {
	ifaces, routes := testTables(t)
	eng := New(ifaces, routes, logger.New("error", true))

	var out bytes.Buffer
	err := eng.Run(context.Background(), strings.NewReader("# only comments\n\n"), &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())

	processed, _, _, _, skipped := eng.Metrics().Snapshot()
	assert.Equal(t, 0, processed)
	assert.Equal(t, 0, skipped)
}

func TestRunCancelledContext(t *testing.T) {
	ifaces, routes := testTables(t)
	eng := New(ifaces, routes, logger.New("error", true))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := eng.Run(ctx, strings.NewReader(testInput), &out)
	assert.ErrorIs(t, err, context.Canceled)
}
