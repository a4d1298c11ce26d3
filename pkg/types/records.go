package types

import "github.com/holiman/uint256"

// PairCreated is the uniswap v2 factory event emitted when a new pair
// contract is deployed (spec §3).
type PairCreated struct {
	BlockNumber       uint64       `csv:"block_number"`
	Factory           Address      `csv:"factory"`
	Pair              Address      `csv:"pair"`
	Token0            Address      `csv:"token0"`
	Token1            Address      `csv:"token1"`
	PairIndex         *uint256.Int `csv:"pair_index"`
	Timestamp         int64        `csv:"timestamp"`
	TransactionHash   Hash32       `csv:"transaction_hash"`
	TransactionIndex  int64        `csv:"transaction_index"`
}

// Price is a per-swap record carrying price, volumes, and direction
// (spec §3).
type Price struct {
	BlockNumber      uint64       `csv:"block_number"`
	Pair             Address      `csv:"pair"`
	Sender           Address      `csv:"sender"`
	Receiver         Address      `csv:"receiver"`
	Price            float64      `csv:"price"`
	Volume0          float64      `csv:"volume0"`
	Volume1          float64      `csv:"volume1"`
	Fixed0           *uint256.Int `csv:"fixed0"`
	Fixed1           *uint256.Int `csv:"fixed1"`
	Decimals0        uint8        `csv:"decimals0"`
	Decimals1        uint8        `csv:"decimals1"`
	Side             Side         `csv:"side"`
	Timestamp        int64        `csv:"timestamp"`
	TransactionHash  Hash32       `csv:"transaction_hash"`
	TransactionIndex int64        `csv:"transaction_index"`
}

// Reserves is a liquidity-pool state snapshot associated with a
// Mint/Burn/Swap/Sync event (spec §3). The Pair/BlockNumber/Timestamp
// envelope fields are a recovered addition over the distilled spec — see
// SPEC_FULL.md §3 — making a Reserves record self-describing the same
// way PairCreated and Price already are.
type Reserves struct {
	Pair         Address       `csv:"pair"`
	BlockNumber  uint64        `csv:"block_number"`
	Timestamp    int64         `csv:"timestamp"`
	Event        ReservesEvent `csv:"event"`
	Reserve0     *uint256.Int  `csv:"reserve0"`
	Reserve1     *uint256.Int  `csv:"reserve1"`
	Amount0      *uint256.Int  `csv:"amount0"`
	Amount1      *uint256.Int  `csv:"amount1"`
	LPAmount     *uint256.Int  `csv:"lp_amount"`
	ProtocolFee  *uint256.Int  `csv:"protocol_fee"` // nil when the column is empty
}
