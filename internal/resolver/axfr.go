package resolver

import (
	"context"

	"github.com/corvidns/resolver/internal/transport"
	"github.com/corvidns/resolver/internal/wire"
)

// ZoneTransfer performs an AXFR against the given server (bypassing cache
// and upstream failover — a zone transfer targets one server explicitly).
func (e *Engine) ZoneTransfer(ctx context.Context, server, zone string) (transport.ZoneTransfer, error) {
	q := wire.Question{Name: wire.NormalizeName(zone), Type: wire.TypeAXFR, Class: wire.ClassIN}
	return e.tcp.AXFR(ctx, withPort(server), q)
}
