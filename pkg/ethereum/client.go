// Package ethereum provides failover access to EVM JSON-RPC endpoints and
// fungible-token transfer detection on top of it.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/chainsafe/payment-verifier/internal/metrics"
)

// ErrNoEndpoints is returned when a client is constructed without endpoint URLs.
var ErrNoEndpoints = errors.New("at least one rpc endpoint is required")

const defaultCallTimeout = 10 * time.Second

// Backend is a single JSON-RPC endpoint. *rpc.Client satisfies it.
type Backend interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
	Close()
}

// Dialer opens a Backend for an endpoint URL.
type Dialer func(ctx context.Context, url string) (Backend, error)

func dialRPC(ctx context.Context, url string) (Backend, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// endpoint dials lazily: a URL that failed to dial stays in the rotation and
// is redialed on its next turn.
type endpoint struct {
	url  string
	dial Dialer

	mu      sync.Mutex
	backend Backend
}

func (ep *endpoint) connect(ctx context.Context) (Backend, error) {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	if ep.backend != nil {
		return ep.backend, nil
	}
	backend, err := ep.dial(ctx, ep.url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial endpoint %s: %w", ep.url, err)
	}
	ep.backend = backend
	return backend, nil
}

func (ep *endpoint) close() {
	ep.mu.Lock()
	defer ep.mu.Unlock()
	if ep.backend != nil {
		ep.backend.Close()
		ep.backend = nil
	}
}

// Client is one logical node client backed by several endpoints. Every attempt
// moves to the next endpoint in strict round robin; a failed call is retried
// until each endpoint has been tried once.
type Client struct {
	network     string
	endpoints   []*endpoint
	logger      *zap.Logger
	callTimeout time.Duration
	logFailover bool

	mu     sync.Mutex
	active int
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	logger      *zap.Logger
	callTimeout time.Duration
	logFailover bool
	dial        Dialer
}

// WithLogger sets the logger used for failover events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithCallTimeout bounds every single endpoint attempt.
func WithCallTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithFailoverLogging toggles the warn log written when an endpoint fails.
func WithFailoverLogging(enabled bool) Option {
	return func(o *clientOptions) { o.logFailover = enabled }
}

// WithDialer replaces the JSON-RPC dialer.
func WithDialer(d Dialer) Option {
	return func(o *clientOptions) { o.dial = d }
}

// NewClient returns a failover client for the network. Every URL is dialed up
// front; an endpoint that fails to dial is logged and retried when the
// rotation reaches it, so construction only fails for an empty URL list.
func NewClient(ctx context.Context, network string, urls []string, opts ...Option) (*Client, error) {
	if len(urls) == 0 {
		return nil, ErrNoEndpoints
	}

	o := clientOptions{
		logger:      zap.NewNop(),
		callTimeout: defaultCallTimeout,
		logFailover: true,
		dial:        dialRPC,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		network:     network,
		endpoints:   make([]*endpoint, 0, len(urls)),
		logger:      o.logger.With(zap.String("network", network)),
		callTimeout: o.callTimeout,
		logFailover: o.logFailover,
		active:      -1,
	}
	for _, url := range urls {
		ep := &endpoint{url: url, dial: o.dial}
		if _, err := ep.connect(ctx); err != nil {
			c.logger.Warn("RPC endpoint unavailable, will redial on its turn",
				zap.String("endpoint", url), zap.Error(err))
		}
		c.endpoints = append(c.endpoints, ep)
	}
	return c, nil
}

// Network returns the network key the client serves.
func (c *Client) Network() string {
	return c.network
}

// Close releases every endpoint connection.
func (c *Client) Close() {
	for _, ep := range c.endpoints {
		ep.close()
	}
}

func (c *Client) next() *endpoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = (c.active + 1) % len(c.endpoints)
	return c.endpoints[c.active]
}

// Send issues a JSON-RPC call, failing over to the next endpoint on error. It
// returns the last observed error once every endpoint has failed for this call.
func (c *Client) Send(ctx context.Context, result any, method string, params ...any) error {
	var lastErr error
	for retryCount := 0; retryCount < len(c.endpoints); retryCount++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		ep := c.next()
		err := c.attempt(ctx, ep, result, method, params)
		if err == nil {
			metrics.RPCCallsTotal.WithLabelValues(c.network, method, "success").Inc()
			return nil
		}

		lastErr = err
		metrics.RPCCallsTotal.WithLabelValues(c.network, method, "error").Inc()
		metrics.RPCFailoversTotal.WithLabelValues(c.network).Inc()
		if c.logFailover {
			c.logger.Warn("RPC endpoint failed, trying the next endpoint",
				zap.String("endpoint", ep.url),
				zap.String("method", method),
				zap.Int("retry_count", retryCount),
				zap.Error(err))
		}
	}
	return lastErr
}

func (c *Client) attempt(ctx context.Context, ep *endpoint, result any, method string, params []any) error {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()
	backend, err := ep.connect(callCtx)
	if err != nil {
		return err
	}
	return backend.CallContext(callCtx, result, method, params...)
}

// TransactionByHash returns the transaction, or nil if the node does not know it.
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*Transaction, error) {
	var tx *Transaction
	if err := c.Send(ctx, &tx, "eth_getTransactionByHash", hash); err != nil {
		return nil, err
	}
	return tx, nil
}

// TransactionReceipt returns the receipt, or nil if the transaction is not mined.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	if err := c.Send(ctx, &receipt, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return receipt, nil
}

// BlockNumber returns the current chain head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var head hexutil.Uint64
	if err := c.Send(ctx, &head, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(head), nil
}

// BlockByNumber returns the block header fields, or nil if the block is unknown.
func (c *Client) BlockByNumber(ctx context.Context, number uint64) (*Block, error) {
	var block *Block
	if err := c.Send(ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(number), false); err != nil {
		return nil, err
	}
	return block, nil
}

// CodeAt implements bind.ContractCaller.
func (c *Client) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	var code hexutil.Bytes
	if err := c.Send(ctx, &code, "eth_getCode", account, toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return code, nil
}

// CallContract implements bind.ContractCaller.
func (c *Client) CallContract(ctx context.Context, msg goethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.Send(ctx, &out, "eth_call", toCallArg(msg), toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return out, nil
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	return hexutil.EncodeBig(number)
}

func toCallArg(msg goethereum.CallMsg) map[string]any {
	arg := map[string]any{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		// older nodes only read "data"
		arg["input"] = hexutil.Bytes(msg.Data)
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	return arg
}
