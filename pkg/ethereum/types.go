package ethereum

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Transaction is the part of an eth_getTransactionByHash result the verifier reads.
type Transaction struct {
	Hash        common.Hash     `json:"hash"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to"`
	Value       *hexutil.Big    `json:"value"`
	BlockHash   *common.Hash    `json:"blockHash"`
	BlockNumber *hexutil.Big    `json:"blockNumber"`
}

// Mined reports whether the transaction has been included in a block.
func (t *Transaction) Mined() bool {
	return t.BlockNumber != nil
}

// BlockNum returns the inclusion block number, or 0 for pending transactions.
func (t *Transaction) BlockNum() uint64 {
	if t.BlockNumber == nil {
		return 0
	}
	return t.BlockNumber.ToInt().Uint64()
}

// ValueInt returns the transferred native value in wei.
func (t *Transaction) ValueInt() *big.Int {
	if t.Value == nil {
		return new(big.Int)
	}
	return t.Value.ToInt()
}

// Block is the part of an eth_getBlockByNumber result the verifier reads.
type Block struct {
	Number    hexutil.Uint64 `json:"number"`
	Hash      common.Hash    `json:"hash"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}
