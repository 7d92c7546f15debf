package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/routelab/fwdsim/internal/config"
	"github.com/routelab/fwdsim/internal/engine"
	"github.com/routelab/fwdsim/internal/logger"
	"github.com/routelab/fwdsim/internal/netaddr"
	"github.com/routelab/fwdsim/internal/resolver"
	"github.com/routelab/fwdsim/internal/table"
)

var (
	version = "1.0.0"

	configFile    string
	interfaceFile string
	routeFile     string
	inputFile     string
	outputFile    string
	silentMode    bool
	verboseMode   bool
	concurrency   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fwdsim",
		Short: "IPv4 forwarding-decision simulator",
		Long: `Simulates the forwarding decisions of an IP router: loads a static
interface table and route table, then reports for each destination address
whether it is delivered directly, forwarded to a next hop, or unreachable.`,
		Run: runSimulation,
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <address>...",
		Short: "Resolve one or more destination addresses",
		Long:  `Load the tables and print the forwarding decision for each address given as an argument.`,
		Args:  cobra.MinimumNArgs(1),
		Run:   resolveAddresses,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the loaded tables",
		Long:  `Load and print the interface and route tables as parsed, after masking and skipping of malformed records.`,
		Run:   showTables,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the table files",
		Long:  `Load both tables and report entry counts. Fails if either table yields no usable entries.`,
		Run:   checkTables,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run:   showVersion,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path (JSON)")
	rootCmd.PersistentFlags().StringVarP(&interfaceFile, "interfaces", "c", "", "Interface table file path")
	rootCmd.PersistentFlags().StringVarP(&routeFile, "routes", "r", "", "Route table file path")
	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Silent mode (no log output)")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Verbose mode (debug level logging)")

	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Destination address input file (default stdin)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Decision output file (default stdout)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Resolver pool size (0 = serial)")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig merges the optional config file with command-line flags;
// flags win over file values.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if interfaceFile != "" {
		cfg.InterfaceFile = interfaceFile
	}
	if routeFile != "" {
		cfg.RouteFile = routeFile
	}
	if inputFile != "" {
		cfg.InputFile = inputFile
	}
	if outputFile != "" {
		cfg.OutputFile = outputFile
	}
	if silentMode {
		cfg.SilentMode = true
	}
	if verboseMode {
		cfg.LogLevel = "debug"
	}
	if concurrency > 0 {
		cfg.ConcurrencyLimit = concurrency
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

func loadTables(cfg *config.Config, log *logger.Logger) ([]table.InterfaceEntry, []table.RouteEntry) {
	ifaces, err := table.LoadInterfacesFile(cfg.InterfaceFile, log.WithComponent("loader"))
	if err != nil {
		log.Error("Failed to load interface table", "error", err)
		os.Exit(1)
	}

	routes, err := table.LoadRoutesFile(cfg.RouteFile, log.WithComponent("loader"))
	if err != nil {
		log.Error("Failed to load route table", "error", err)
		os.Exit(1)
	}

	return ifaces, routes
}

func runSimulation(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, cfg.SilentMode)
	log.Info("Starting forwarding simulation", "version", version)

	ifaces, routes := loadTables(cfg, log)

	var in io.Reader = os.Stdin
	if cfg.InputFile != "" {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			log.Error("Failed to open input file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			log.Error("Failed to open output file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	eng := engine.New(ifaces, routes, log)

	var err error
	if cfg.ConcurrencyLimit > 1 {
		err = eng.RunConcurrent(context.Background(), in, out, cfg.ConcurrencyLimit)
	} else {
		err = eng.Run(context.Background(), in, out)
	}
	if err != nil {
		log.Error("Simulation failed", "error", err)
		os.Exit(1)
	}
}

func resolveAddresses(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, cfg.SilentMode)

	ifaces, routes := loadTables(cfg, log)

	failed := false
	for _, arg := range args {
		dest, err := netaddr.ParseAddr(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %q: %v\n", arg, err)
			failed = true
			continue
		}
		fmt.Println(resolver.Resolve(dest, ifaces, routes))
	}

	if failed {
		os.Exit(1)
	}
}

func showTables(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, true)

	ifaces, routes := loadTables(cfg, log)

	it := tablewriter.NewWriter(os.Stdout)
	it.SetHeader([]string{"Interface", "Address", "Prefix", "Network"})
	for _, e := range ifaces {
		it.Append([]string{e.Name, e.Addr.String(), strconv.Itoa(e.PrefixLen), e.Network.String()})
	}
	it.Render()

	rt := tablewriter.NewWriter(os.Stdout)
	rt.SetHeader([]string{"Network", "Prefix", "Next Hop"})
	for _, r := range routes {
		rt.Append([]string{r.Network.String(), strconv.Itoa(r.PrefixLen), r.NextHop.String()})
	}
	rt.Render()
}

func checkTables(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	log := logger.New(cfg.LogLevel, cfg.SilentMode)

	ifaces, routes := loadTables(cfg, log)

	fmt.Printf("Interface table: %d entries\n", len(ifaces))
	fmt.Printf("Route table: %d entries\n", len(routes))

	if len(ifaces) == 0 || len(routes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: a table yielded no usable entries")
		os.Exit(1)
	}
	fmt.Println("Tables OK")
}

func showVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("fwdsim v%s\n", version)
	fmt.Printf("Runtime: %s\n", runtime.Version())
	fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
