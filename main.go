package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus" // Used only for fatal errors before the app logger is set up
	"github.com/spf13/cobra"

	"investPilot/config"
	"investPilot/internal/adapters/alpacaclient"
	"investPilot/internal/adapters/logger"
	"investPilot/internal/adapters/mcpserver"
	"investPilot/internal/app"
	"investPilot/internal/report"
)

const (
	serverName    = "invest-pilot"
	serverVersion = "0.1.0"
)

var overrides config.Overrides

var rootCmd = &cobra.Command{
	Use:          serverName,
	Short:        "MCP tool server for Alpaca equities trading",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trading tools over MCP (stdio or http)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var callCmd = &cobra.Command{
	Use:   "call <tool> [key=value ...]",
	Short: "Invoke one tool and print its response",
	Example: `  invest-pilot call get_account_info
  invest-pilot call place_limit_order symbol=AAPL side=buy quantity=1 limit_price=150
  invest-pilot call get_orders status=open limit=5 --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the registered tools",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&overrides.OutputFormat, "output", "", "response format: text, json or yaml (env OUTPUT_FORMAT)")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (env LOG_LEVEL)")
	serveCmd.Flags().StringVar(&overrides.Transport, "transport", "", "MCP transport: stdio or http (env MCP_TRANSPORT)")
	serveCmd.Flags().StringVar(&overrides.HTTPAddr, "http-addr", "", "listen address for the http transport (env HTTP_ADDR)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, callCmd, toolsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// application holds the wired components shared by every command.
type application struct {
	cfg     *config.Config
	logger  *logger.Logger
	service *app.ToolService
}

func bootstrap() *application {
	// 1. Load Configuration
	cfg, err := config.Load(overrides)
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // App logger is not ready yet
	}

	// 2. Initialize Logger (stderr only, stdout carries the stdio transport and call output)
	appLogger := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogFormat == "json"})
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Brokerage Client (Alpaca Adapter)
	broker, err := alpacaclient.New(alpacaclient.Config{
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		Paper:     cfg.Paper,
		BaseURL:   cfg.BaseURL,
		DataFeed:  cfg.DataFeed,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Alpaca client")
		log.Fatalf("FATAL: Failed to initialize Alpaca client: %v", err)
	}
	appLogger.Info(context.Background(), "Alpaca client initialized", map[string]interface{}{"paper": cfg.Paper})

	// 4. Initialize Response Formatter
	formatter := report.New(cfg.OutputFormat)

	// 5. Initialize Application Service
	service, err := app.NewToolService(appLogger, broker, formatter)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize tool service")
		log.Fatalf("FATAL: Failed to initialize tool service: %v", err)
	}
	appLogger.Info(context.Background(), "Tool service initialized", map[string]interface{}{"output": string(formatter.Format())})

	return &application{cfg: cfg, logger: appLogger, service: service}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a := bootstrap()

	// 6. Start the Transport
	srv, err := mcpserver.New(serverName, serverVersion, a.service, a.logger)
	if err != nil {
		a.logger.Error(context.Background(), err, "FATAL: Failed to initialize MCP server")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch a.cfg.Transport {
	case config.TransportHTTP:
		err = srv.ServeHTTP(ctx, a.cfg.HTTPAddr)
	default:
		err = srv.ServeStdio()
	}
	if err != nil {
		a.logger.Error(ctx, err, "MCP server exited with error")
		return err
	}

	a.logger.Info(ctx, "Server finished gracefully.")
	return nil
}

func runCall(cmd *cobra.Command, args []string) error {
	toolArgs, err := parseToolArgs(args[1:])
	if err != nil {
		return err
	}

	a := bootstrap()
	out, err := a.service.Invoke(cmd.Context(), args[0], toolArgs)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runTools(cmd *cobra.Command, _ []string) error {
	a := bootstrap()

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Tool", "Parameters", "Description"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, t := range a.service.Tools() {
		table.Append([]string{t.Name, describeParams(t.Params), t.Description})
	}
	table.Render()
	return nil
}

// parseToolArgs turns key=value pairs into tool arguments. Values stay strings;
// the tool service converts them per parameter.
func parseToolArgs(pairs []string) (app.Args, error) {
	out := make(app.Args, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, expected key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

func describeParams(params []app.Param) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		name := p.Name
		switch {
		case p.Required:
			name += "*"
		case p.Default != nil:
			name += fmt.Sprintf("=%v", p.Default)
		}
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return strings.HasSuffix(names[i], "*") && !strings.HasSuffix(names[j], "*")
	})
	return strings.Join(names, " ")
}
