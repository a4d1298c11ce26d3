package wire

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/branched-services/superchain-client/pkg/types"
)

// Operation is one of the client->server request bodies the protocol
// defines (spec §3). Implementations are the three variants below; the
// set is closed, so an unexported method keeps it that way.
type Operation interface {
	operationTag() string
	cborFields() map[string]any
}

// GetPairs requests PairCreated events for pairsFilter (empty means all
// pairs) within [Start, End] (either bound may be nil per spec §3/§4.4).
type GetPairs struct {
	Pairs []types.Address
	Start *uint64
	End   *uint64
}

func (o GetPairs) operationTag() string { return "getPairs" }

func (o GetPairs) cborFields() map[string]any {
	return map[string]any{
		"pairs": encodeAddresses(o.Pairs),
		"start": o.Start,
		"end":   o.End,
	}
}

// GetPrices requests Price quotes for pairsFilter within [Start, End].
type GetPrices struct {
	Pairs []types.Address
	Start *uint64
	End   *uint64
}

func (o GetPrices) operationTag() string { return "getPrices" }

func (o GetPrices) cborFields() map[string]any {
	return map[string]any{
		"pairs": encodeAddresses(o.Pairs),
		"start": o.Start,
		"end":   o.End,
	}
}

// GetHeight requests the current indexed chain height. It has no body.
type GetHeight struct{}

func (o GetHeight) operationTag() string { return "getHeight" }
func (o GetHeight) cborFields() map[string]any { return nil }

func encodeAddresses(addrs []types.Address) [][]byte {
	out := make([][]byte, len(addrs))
	for i, a := range addrs {
		raw := make([]byte, len(a))
		copy(raw, a[:])
		out[i] = raw
	}
	return out
}

// EncodeRequest builds the binary WebSocket payload for a request: a
// CBOR map with the request id, the tagged-enum discriminant field
// "operation" (camelCase variant name per spec §4.1/§6), and the
// variant's own fields flattened into the same map.
func EncodeRequest(id uint8, op Operation) ([]byte, error) {
	fields := op.cborFields()
	if fields == nil {
		fields = make(map[string]any, 2)
	}
	fields["id"] = id
	fields["operation"] = op.operationTag()

	return cbor.Marshal(fields)
}
