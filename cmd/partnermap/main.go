package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rmax-ai/partnermap/pkg/client"
	"github.com/rmax-ai/partnermap/pkg/config"
	"github.com/rmax-ai/partnermap/pkg/mcp"
	"github.com/rmax-ai/partnermap/pkg/model"
	"github.com/rmax-ai/partnermap/pkg/query"
	"github.com/rmax-ai/partnermap/pkg/reports"
)

var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const usage = `Usage: partnermap <command> [flags]

Commands:
  search   [-q text] [-category c] [-limit n]   search partners
  nearby   -lat f -lng f [-radius miles]         partners near a point
  export   <directory|metrics|disaster_status> [-format csv|json] [-o file]
  mcp                                            serve MCP over stdio
  version

Every command also accepts -mode, -api-url, -http-timeout, -redis and -cache-ttl.`

var errUsage = errors.New("usage")

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Println(usage)
		} else if !errors.Is(err, flag.ErrHelp) {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// command is a parsed subcommand: its own flags plus the shared data-source flags.
type command struct {
	flags  *flag.FlagSet
	common config.Common
}

func newCommand(name string) (*command, error) {
	common, err := config.CommonFromEnv()
	if err != nil {
		return nil, err
	}
	c := &command{flags: flag.NewFlagSet("partnermap "+name, flag.ContinueOnError), common: common}
	c.flags.SetOutput(io.Discard)
	c.common.Flags(c.flags)
	return c, nil
}

func (c *command) parse(args []string) error {
	if err := c.flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.flags.SetOutput(os.Stdout)
			c.flags.PrintDefaults()
		}
		return err
	}
	return c.common.Validate()
}

// open returns the API wrapped in the query cache so repeated CLI calls can
// share results through Redis.
func (c *command) open(ctx context.Context) (client.API, func() error, error) {
	api, err := client.Open(c.common.ClientOptions())
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cache, closeCache, err := c.common.OpenCache(pingCtx)
	if err != nil {
		return nil, nil, err
	}
	return query.NewClient(api, cache), closeCache, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "search":
		return runSearch(ctx, args[1:], stdout)
	case "nearby":
		return runNearby(ctx, args[1:], stdout)
	case "export":
		return runExport(ctx, args[1:], stdout)
	case "mcp":
		return runMCP(ctx, args[1:])
	case "version":
		fmt.Fprintf(stdout, "partnermap %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		return nil
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func runSearch(ctx context.Context, args []string, stdout io.Writer) error {
	cmd, err := newCommand("search")
	if err != nil {
		return err
	}
	q := cmd.flags.String("q", "", "text matched against name and address")
	category := cmd.flags.String("category", "", "service category filter")
	limit := cmd.flags.Int("limit", 0, "maximum rows to print, 0 for all")
	if err := cmd.parse(args); err != nil {
		return err
	}

	params := model.SearchParams{Query: *q, ServiceCategory: model.ServiceCategory(*category)}
	if params.ServiceCategory != "" && !params.ServiceCategory.Valid() {
		return fmt.Errorf("unknown service category: %s", *category)
	}

	api, closeCache, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := api.SearchPartners(ctx, params)
	if err != nil {
		return err
	}
	rows := res.Results
	if *limit > 0 && len(rows) > *limit {
		rows = rows[:*limit]
	}
	fmt.Fprintf(stdout, "Found %d partners\n", res.Count)
	printPartners(stdout, rows)
	return nil
}

func runNearby(ctx context.Context, args []string, stdout io.Writer) error {
	cmd, err := newCommand("nearby")
	if err != nil {
		return err
	}
	lat := cmd.flags.String("lat", "", "latitude")
	lng := cmd.flags.String("lng", "", "longitude")
	radius := cmd.flags.Float64("radius", model.DefaultRadiusMiles, "radius in miles")
	if err := cmd.parse(args); err != nil {
		return err
	}
	if *lat == "" || *lng == "" {
		return errors.New("nearby requires -lat and -lng")
	}
	la, err := strconv.ParseFloat(*lat, 64)
	if err != nil {
		return fmt.Errorf("invalid -lat %q", *lat)
	}
	ln, err := strconv.ParseFloat(*lng, 64)
	if err != nil {
		return fmt.Errorf("invalid -lng %q", *lng)
	}

	api, closeCache, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	res, err := api.SearchNearby(ctx, la, ln, *radius)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%d partners within %.1f miles of (%.4f, %.4f)\n", res.Count, res.RadiusMiles, res.SearchLocation.Lat, res.SearchLocation.Lng)
	printPartners(stdout, res.Results)
	return nil
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("export needs a report type: %w", errUsage)
	}
	reportType := reports.ReportType(args[0])

	cmd, err := newCommand("export")
	if err != nil {
		return err
	}
	format := cmd.flags.String("format", "csv", "csv|json")
	out := cmd.flags.String("o", "", "output file, stdout when empty")
	partnerID := cmd.flags.String("partner", "", "limit to one partner")
	category := cmd.flags.String("category", "", "service category filter")
	metricType := cmd.flags.String("metric", "", "metric type filter")
	if err := cmd.parse(args[1:]); err != nil {
		return err
	}

	f, err := reports.ParseFormat(*format)
	if err != nil {
		return err
	}

	api, closeCache, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	gen, err := reports.NewReportGenerator(reportType, api)
	if err != nil {
		return err
	}
	r, err := gen.Generate(ctx, reports.ReportParams{
		Format:     f,
		PartnerID:  *partnerID,
		Category:   model.ServiceCategory(*category),
		MetricType: model.MetricType(*metricType),
	})
	if err != nil {
		return err
	}

	w := stdout
	if *out != "" {
		file, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *out, err)
		}
		defer file.Close()
		w = file
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, args []string) error {
	cmd, err := newCommand("mcp")
	if err != nil {
		return err
	}
	if err := cmd.parse(args); err != nil {
		return err
	}
	api, closeCache, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer closeCache()
	return mcp.NewServer(api).Serve()
}

func printPartners(w io.Writer, partners []model.Partner) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range partners {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.PartnerID, p.OrganizationName, p.OrganizationType, p.PhysicalAddress)
	}
	tw.Flush()
}
