// Command dnsupdate sends an RFC 2136 dynamic UPDATE message, optionally
// TSIG-signed, and reports the server's RCODE.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"os"
	"time"

	"github.com/corvidns/resolver/internal/auth"
	"github.com/corvidns/resolver/internal/transport"
	"github.com/corvidns/resolver/internal/update"
	"github.com/corvidns/resolver/internal/wire"
)

func main() {
	var (
		server     = flag.String("server", "127.0.0.1:53", "DNS server HOST:PORT")
		zone       = flag.String("zone", "", "Zone to update (required)")
		addName    = flag.String("add-name", "", "Name of the A record to add")
		addAddr    = flag.String("add-addr", "", "IPv4 address for -add-name")
		addTTL     = flag.Uint("add-ttl", 300, "TTL for the added record")
		delName    = flag.String("delete-name", "", "Name whose RRset should be deleted")
		delType    = flag.Int("delete-type", int(wire.TypeA), "RR type of -delete-name to delete")
		tsigName   = flag.String("tsig-name", "", "TSIG key owner name")
		tsigAlgo   = flag.String("tsig-algo", auth.HmacSHA256, "TSIG algorithm")
		tsigSecret = flag.String("tsig-secret", "", "Base64 TSIG shared secret")
		timeout    = flag.Duration("timeout", 5*time.Second, "Request timeout")
	)
	flag.Parse()

	if *zone == "" {
		fmt.Fprintln(os.Stderr, "Usage: dnsupdate -zone example.com [-add-name host.example.com -add-addr 192.0.2.1] [-delete-name old.example.com]")
		os.Exit(2)
	}

	b := update.New(*zone)
	if *addName != "" {
		ip := net.ParseIP(*addAddr)
		if ip == nil {
			fmt.Fprintf(os.Stderr, "dnsupdate: invalid -add-addr %q\n", *addAddr)
			os.Exit(2)
		}
		b.Add(*addName, wire.TypeA, uint32(*addTTL), wire.AData{Addr: ip})
	}
	if *delName != "" {
		b.DeleteRRset(*delName, wire.RecordType(*delType))
	}

	id := uint16(rand.Intn(1 << 16))
	req := b.Build(id)

	reqBytes, err := req.Marshal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsupdate: %v\n", err)
		os.Exit(1)
	}

	if *tsigName != "" {
		reqBytes, err = signTSIG(reqBytes, id, *tsigName, *tsigAlgo, *tsigSecret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dnsupdate: tsig: %v\n", err)
			os.Exit(1)
		}
	}

	tcp := transport.NewTCPTransport(*timeout)
	defer tcp.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	respBytes, err := tcp.Send(ctx, *server, reqBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsupdate: %v\n", err)
		os.Exit(1)
	}

	resp, err := wire.ParsePacket(respBytes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dnsupdate: response: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("rcode=%d\n", resp.Header.Rcode())
	if resp.Header.Rcode() != wire.RCodeNoError {
		os.Exit(1)
	}
}

// signTSIG appends an RFC 2845 TSIG record to the additional section of an
// already-marshaled UPDATE message and bumps ARCOUNT accordingly. TSIG is a
// transport-only pseudo-record never stored in the RR registry (see
// internal/auth), so it is assembled by hand here rather than through the
// wire.Record codec path.
func signTSIG(reqBytes []byte, id uint16, keyName, algo, secretB64 string) ([]byte, error) {
	secret, err := auth.DecodeSecret(secretB64)
	if err != nil {
		return nil, err
	}
	key := auth.TSIGKey{Name: wire.NormalizeName(keyName), Algorithm: algo, Secret: secret}

	rec, err := auth.Sign(key, reqBytes, time.Now(), 300)
	if err != nil {
		return nil, err
	}
	rec.OriginalID = id

	w := wire.NewWriter(len(reqBytes) + 128)
	w.WriteBytes(reqBytes)

	nc := wire.NewCompressor()
	if err := nc.EncodeName(w, key.Name, true); err != nil {
		return nil, err
	}
	w.WriteUint16(uint16(wire.TypeTSIG))
	w.WriteUint16(uint16(wire.ClassANY))
	w.WriteUint32(0) // TTL

	rdlenAt := w.ReserveUint16()
	rdStart := w.Offset()

	if err := nc.EncodeName(w, rec.AlgorithmName, true); err != nil {
		return nil, err
	}
	w.WriteBytes([]byte{
		byte(rec.TimeSigned >> 40), byte(rec.TimeSigned >> 32), byte(rec.TimeSigned >> 24),
		byte(rec.TimeSigned >> 16), byte(rec.TimeSigned >> 8), byte(rec.TimeSigned),
	})
	w.WriteUint16(rec.Fudge)
	w.WriteUint16(uint16(len(rec.MAC)))
	w.WriteBytes(rec.MAC)
	w.WriteUint16(rec.OriginalID)
	w.WriteUint16(rec.Error)
	w.WriteUint16(uint16(len(rec.OtherData)))
	w.WriteBytes(rec.OtherData)

	w.PatchUint16(rdlenAt, uint16(w.Offset()-rdStart))

	out := w.Bytes()
	binary.BigEndian.PutUint16(out[10:12], binary.BigEndian.Uint16(out[10:12])+1) // ARCOUNT++
	return out, nil
}
