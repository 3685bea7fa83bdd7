package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"poppy/host/config"
	"poppy/host/hid"
	"poppy/host/indicator"
	"poppy/host/serial"
	"poppy/host/web"
	"poppy/protocol"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	transport  = flag.String("transport", "", "Transport: hid or serial (overrides config)")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	listen     = flag.String("listen", "", "HTTP listen address for serve (overrides config)")
	timeout    = flag.Duration("timeout", 2*time.Second, "Per-command timeout")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(2)
	}
	if flag.Arg(0) == "help" {
		printHelp()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	conn, err := dial(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect: %v\n", err)
		os.Exit(1)
	}
	client := indicator.NewClient(conn)
	defer client.Close()

	if err := run(cfg, client, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}

	if *transport != "" {
		cfg.Transport = *transport
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *listen != "" {
		cfg.Web.Listen = *listen
	}
	if *verbose {
		cfg.Verbose = true
	}
	return cfg, config.Validate(cfg)
}

func dial(cfg *config.Config) (indicator.ReportConn, error) {
	switch cfg.Transport {
	case config.TransportSerial:
		if cfg.Verbose {
			fmt.Printf("Connecting to %s...\n", cfg.Serial.Device)
		}
		conn, err := serial.Dial(cfg.SerialPort())
		if err != nil {
			return nil, err
		}
		return conn, nil
	default:
		hc := cfg.HIDDevice()
		if cfg.Verbose {
			fmt.Printf("Opening HID %04x:%04x interface %d...\n", hc.VendorID, hc.ProductID, hc.Interface)
		}
		dev, err := hid.Open(hc)
		if err != nil {
			return nil, err
		}
		return dev, nil
	}
}

func run(cfg *config.Config, client *indicator.Client, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch args[0] {
	case "level":
		if len(args) != 2 {
			return fmt.Errorf("usage: level <0-%d>", indicator.MaxLevel)
		}
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid level %q: %w", args[1], err)
		}
		if err := client.SetLevel(ctx, level); err != nil {
			return err
		}
		if cfg.Verbose {
			fmt.Printf("Level set to %d\n", level)
		}

	case "bootloader":
		if err := client.EnterBootloader(ctx); err != nil {
			return err
		}
		fmt.Println("Bootloader requested; the device will re-enumerate.")

	case "status":
		st, err := client.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Firmware protocol %s, report: % x\n", protocol.Version, st.Report[:])

	case "serve":
		srv := web.NewServer(web.ServerConfig{
			ListenAddr:     cfg.Web.Listen,
			Verbose:        cfg.Verbose,
			RequestTimeout: *timeout,
		}, client)
		return srv.ListenAndServe()

	default:
		return fmt.Errorf("unknown command %q (try 'help')", args[0])
	}
	return nil
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Usage: poppy-ctl [flags] <command>

Commands:
  level N      Set brightness 0-%d (larger values saturate)
  bootloader   Reboot the indicator into its bootloader
  status       Read the device status report
  serve        Run the HTTP control server

Flags:
`, indicator.MaxLevel)
	flag.PrintDefaults()
}
