// Command dnsquery sends a single DNS question to a server using the
// resolver engine and prints the decoded response.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/corvidns/resolver/internal/config"
	"github.com/corvidns/resolver/internal/logging"
	"github.com/corvidns/resolver/internal/metrics"
	"github.com/corvidns/resolver/internal/resolver"
	"github.com/corvidns/resolver/internal/wire"
)

func main() {
	var (
		server     = flag.String("server", "8.8.8.8:53", "DNS server HOST:PORT")
		name       = flag.String("name", "example.com", "Query name")
		qtype      = flag.Int("qtype", int(wire.TypeA), "Query type (numeric, A=1)")
		useTCP     = flag.Bool("tcp", false, "Force TCP")
		timeout    = flag.Duration("timeout", 2*time.Second, "Per-attempt timeout")
		cookies    = flag.Bool("cookies", false, "Attach an RFC 7873 DNS Cookie to the query")
		configPath = flag.String("config", config.ResolveConfigPath(""), "Optional YAML config file")
		quiet      = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery: config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Configure(logging.Config{
		Level:      cfg.Logging.Level,
		Structured: cfg.Logging.Structured,
	})

	opts, err := cfg.ToOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsquery: %v\n", err)
		os.Exit(1)
	}
	opts.Nameservers = []string{*server}
	opts.UseTCP = *useTCP
	opts.Timeout = *timeout
	opts.EnableCookies = *cookies

	engine := resolver.New(opts)
	defer engine.Close()

	var metricsReg *prometheus.Registry
	if cfg.Metrics.Enabled {
		metricsReg = prometheus.NewRegistry()
		engine.WithRecorder(metrics.New(metricsReg, cfg.Metrics.Namespace))
	}

	req := wire.Packet{
		Header: wire.Header{
			ID:    uint16(rand.Intn(1 << 16)),
			Flags: wire.BuildFlags(false, wire.OpcodeQuery, false, false, true, false, false, false, wire.RCodeNoError),
		},
		Questions: []wire.Question{{
			Name:  strings.TrimSuffix(strings.TrimSpace(*name), "."),
			Type:  wire.RecordType(*qtype),
			Class: wire.ClassIN,
		}},
	}

	reqID := uuid.NewString()
	logger.Info("dnsquery.send", slog.String("request_id", reqID), slog.String("server", *server), slog.String("name", *name))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout+time.Second)
	defer cancel()

	result, err := engine.Resolve(ctx, req)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	p := result.Response
	fmt.Printf("source=%s id=%d rcode=%d answers=%d authorities=%d additionals=%d\n",
		result.Source, p.Header.ID, p.Header.Rcode(), len(p.Answers), len(p.Authorities), len(p.Additionals))

	rows := make([]string, 0, len(p.Answers))
	for _, rr := range p.Answers {
		rows = append(rows, formatRR(rr))
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}

	if metricsReg != nil {
		families, err := metricsReg.Gather()
		if err == nil {
			for _, mf := range families {
				_, _ = expfmt.MetricFamilyToText(os.Stdout, mf)
			}
		}
	}
}

func formatRR(rr wire.Record) string {
	name := rr.Name
	if name == "" {
		name = "."
	}
	text := ""
	if codec, ok := wire.Lookup(rr.Type); ok {
		text = codec.ToText(rr.RData)
	}
	return fmt.Sprintf("%s %d IN %s %s", name, rr.TTL, rr.Type, text)
}
