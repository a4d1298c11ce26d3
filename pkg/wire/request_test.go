package wire

import (
	"testing"

	"github.com/fxamacker/cbor/v2"

	"github.com/branched-services/superchain-client/pkg/types"
)

func TestEncodeRequest_GetHeight(t *testing.T) {
	raw, err := EncodeRequest(5, GetHeight{})
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}

	var fields map[string]any
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if fields["operation"] != "getHeight" {
		t.Errorf("operation = %v, want getHeight", fields["operation"])
	}
	if fields["id"] != uint64(5) {
		t.Errorf("id = %v, want 5", fields["id"])
	}
}

func TestEncodeRequest_GetPairs(t *testing.T) {
	pair, err := types.ParseAddress("b4e16d0168e52d35cacd2c6185b44281ec28c9dc")
	if err != nil {
		t.Fatalf("ParseAddress() error = %v", err)
	}
	start := uint64(100)

	raw, err := EncodeRequest(1, GetPairs{Pairs: []types.Address{pair}, Start: &start})
	if err != nil {
		t.Fatalf("EncodeRequest() error = %v", err)
	}

	var fields map[string]any
	if err := cbor.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if fields["operation"] != "getPairs" {
		t.Errorf("operation = %v, want getPairs", fields["operation"])
	}

	pairs, ok := fields["pairs"].([]any)
	if !ok || len(pairs) != 1 {
		t.Fatalf("pairs = %#v", fields["pairs"])
	}
	raw0, ok := pairs[0].([]byte)
	if !ok || len(raw0) != 20 {
		t.Fatalf("pairs[0] = %#v", pairs[0])
	}

	if fields["start"] != uint64(100) {
		t.Errorf("start = %v, want 100", fields["start"])
	}
	if fields["end"] != nil {
		t.Errorf("end = %v, want nil", fields["end"])
	}
}
