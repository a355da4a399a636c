package transport

import (
	"context"

	"github.com/corvidns/resolver/internal/dnserr"
	"github.com/corvidns/resolver/internal/wire"
)

// MaxZoneTransferRecords bounds an AXFR stream's total record count, the
// teacher's MaxRRPerSection/MaxTotalRR bounding pattern applied across an
// entire multi-message transfer instead of one packet, so a misbehaving or
// hostile server can't make a zone transfer consume unbounded memory.
const MaxZoneTransferRecords = 1_000_000

// ZoneTransfer is the ordered record set an AXFR produced, bracketed by its
// opening and closing SOA (RFC 5936 §2.2).
type ZoneTransfer struct {
	Records []wire.Record
}

// AXFR performs a full zone transfer over TCP: the stream is a sequence of
// DNS messages answering the same AXFR question, beginning and ending with
// the zone's SOA record. The transfer ends after the message in which the
// second SOA record of the answer stream appears (RFC 5936 §2.2); SOA
// records are counted by type whatever their owner name, and every answer
// of that last message is kept.
func (t *TCPTransport) AXFR(ctx context.Context, server string, question wire.Question) (ZoneTransfer, error) {
	req := wire.Packet{
		Header:    wire.Header{ID: 0, Flags: wire.BuildFlags(false, wire.OpcodeQuery, false, false, false, false, false, false, wire.RCodeNoError)},
		Questions: []wire.Question{question},
	}
	reqBytes, err := req.Marshal()
	if err != nil {
		return ZoneTransfer{}, err
	}

	conn, err := t.StreamSend(ctx, server, reqBytes)
	if err != nil {
		return ZoneTransfer{}, err
	}
	defer conn.Close()

	var zt ZoneTransfer
	soaCount := 0
	for {
		select {
		case <-ctx.Done():
			return ZoneTransfer{}, ctx.Err()
		default:
		}

		msg, err := ReadNext(conn)
		if err != nil {
			return ZoneTransfer{}, dnserr.Wrap(dnserr.KindNSFailed, err, "axfr stream from %s failed", server)
		}
		pkt, err := wire.ParsePacket(msg)
		if err != nil {
			return ZoneTransfer{}, err
		}
		if pkt.Header.Rcode() != wire.RCodeNoError {
			return ZoneTransfer{}, dnserr.NewRcodeError(uint16(pkt.Header.Rcode()))
		}

		for _, rr := range pkt.Answers {
			if len(zt.Records) >= MaxZoneTransferRecords {
				return ZoneTransfer{}, dnserr.New(dnserr.KindPacketInvalid, "axfr exceeded %d records", MaxZoneTransferRecords)
			}
			zt.Records = append(zt.Records, rr)
			if rr.Type == wire.TypeSOA {
				soaCount++
			}
		}
		if soaCount >= 2 {
			return zt, nil
		}
	}
}
