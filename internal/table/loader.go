package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/routelab/fwdsim/internal/logger"
	"github.com/routelab/fwdsim/internal/netaddr"
)

var (
	interfaceRecord = regexp.MustCompile(`^([A-Za-z0-9]+)\s+([0-9.]+)/([0-9]+)$`)
	routeRecord     = regexp.MustCompile(`^([0-9.]+)/([0-9]+)\s+([0-9.]+)$`)
)

// SkipLine reports whether a line carries no record: blank or a
// full-line comment. The same convention applies to both tables and
// to the destination input stream.
func SkipLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// LoadInterfaces parses the interface table from r. Malformed lines
// are logged and skipped; only a read failure aborts the load.
func LoadInterfaces(r io.Reader, log *logger.Logger) ([]InterfaceEntry, error) {
	var entries []InterfaceEntry
	skipped := 0

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if SkipLine(line) {
			continue
		}

		entry, err := parseInterfaceLine(line)
		if err != nil {
			log.RecordSkipped("interfaces", lineNum, line, err.Error())
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read interface table: %w", err)
	}

	log.Debug("Interface table parsed", "entries", len(entries), "skipped", skipped)
	return entries, nil
}

// LoadRoutes parses the route table from r. Stored networks are
// pre-masked with the record's prefix length. Duplicate networks are
// kept, so first-seen priority is unchanged, but logged.
func LoadRoutes(r io.Reader, log *logger.Logger) ([]RouteEntry, error) {
	var entries []RouteEntry
	seen := NewNetworkSet()
	skipped := 0

	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if SkipLine(line) {
			continue
		}

		entry, err := parseRouteLine(line)
		if err != nil {
			log.RecordSkipped("routes", lineNum, line, err.Error())
			skipped++
			continue
		}

		if !seen.Add(entry.Network, entry.PrefixLen) {
			log.DuplicateNetwork(lineNum, fmt.Sprintf("%s/%d", entry.Network, entry.PrefixLen))
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}

	log.Debug("Route table parsed", "entries", len(entries), "skipped", skipped)
	return entries, nil
}

// LoadInterfacesFile opens and parses the interface table at path.
// Open failures are fatal to the caller: no forwarding decision is
// possible without the table.
func LoadInterfacesFile(path string, log *logger.Logger) ([]InterfaceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open interface table %s: %w", path, err)
	}
	defer f.Close()

	entries, err := LoadInterfaces(f, log)
	if err != nil {
		return nil, err
	}

	log.TableLoaded("interfaces", path, len(entries))
	return entries, nil
}

// LoadRoutesFile opens and parses the route table at path
func LoadRoutesFile(path string, log *logger.Logger) ([]RouteEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open route table %s: %w", path, err)
	}
	defer f.Close()

	entries, err := LoadRoutes(f, log)
	if err != nil {
		return nil, err
	}

	log.TableLoaded("routes", path, len(entries))
	return entries, nil
}

func parseInterfaceLine(line string) (InterfaceEntry, error) {
	m := interfaceRecord.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return InterfaceEntry{}, fmt.Errorf("expected '<name> <address>/<prefixLen>'")
	}

	addr, err := netaddr.ParseAddr(m[2])
	if err != nil {
		return InterfaceEntry{}, err
	}

	prefixLen, err := parsePrefixLen(m[3])
	if err != nil {
		return InterfaceEntry{}, err
	}

	return InterfaceEntry{
		Name:      m[1],
		Addr:      addr,
		PrefixLen: prefixLen,
		Network:   netaddr.MustMask(addr, prefixLen),
	}, nil
}

func parseRouteLine(line string) (RouteEntry, error) {
	m := routeRecord.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return RouteEntry{}, fmt.Errorf("expected '<network>/<prefixLen> <nexthop>'")
	}

	network, err := netaddr.ParseAddr(m[1])
	if err != nil {
		return RouteEntry{}, err
	}

	prefixLen, err := parsePrefixLen(m[2])
	if err != nil {
		return RouteEntry{}, err
	}

	nextHop, err := netaddr.ParseAddr(m[3])
	if err != nil {
		return RouteEntry{}, err
	}

	return RouteEntry{
		Network:   netaddr.MustMask(network, prefixLen),
		PrefixLen: prefixLen,
		NextHop:   nextHop,
	}, nil
}

func parsePrefixLen(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad prefix length %q: %w", s, err)
	}
	if n < 0 || n > 32 {
		return 0, fmt.Errorf("%w: %d", netaddr.ErrInvalidPrefixLen, n)
	}
	return n, nil
}
