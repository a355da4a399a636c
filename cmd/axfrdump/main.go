// Command axfrdump performs an AXFR zone transfer against a server and
// prints the transferred records in zone-file-like text form.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/corvidns/resolver/internal/resolver"
	"github.com/corvidns/resolver/internal/wire"
)

func main() {
	var (
		server  = flag.String("server", "127.0.0.1:53", "DNS server HOST:PORT")
		zone    = flag.String("zone", "", "Zone name to transfer (required)")
		timeout = flag.Duration("timeout", 30*time.Second, "Transfer timeout")
	)
	flag.Parse()

	if *zone == "" {
		fmt.Fprintln(os.Stderr, "Usage: axfrdump -zone example.com -server ns1.example.com:53")
		os.Exit(2)
	}

	opts := resolver.DefaultOptions()
	opts.Nameservers = []string{*server}
	opts.UseTCP = true

	engine := resolver.New(opts)
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	zt, err := engine.ZoneTransfer(ctx, *server, *zone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "axfrdump: %v\n", err)
		os.Exit(1)
	}

	recs := append([]wire.Record(nil), zt.Records...)
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Name != recs[j].Name {
			return recs[i].Name < recs[j].Name
		}
		return recs[i].Type < recs[j].Type
	})

	fmt.Printf("; zone %s transferred from %s, %d records\n", *zone, *server, len(recs))
	for _, rr := range recs {
		text := ""
		if codec, ok := wire.Lookup(rr.Type); ok {
			text = codec.ToText(rr.RData)
		}
		fmt.Printf("%s\t%d\t%s\t%s\t%s\n", rr.Name, rr.TTL, rr.Class, rr.Type, text)
	}
}
