// Package network holds the static per-network configuration consumed by the
// verifier: RPC endpoints, confirmation depth, and the supported token contracts.
package network

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownNetwork is returned when a network key is not registered.
var ErrUnknownNetwork = errors.New("unknown network")

// Liquidity is a coarse rating of a token's market depth on a network.
type Liquidity string

const (
	LiquidityHigh   Liquidity = "high"
	LiquidityMedium Liquidity = "medium"
	LiquidityLow    Liquidity = "low"
)

// Token describes a fungible token contract on a network.
type Token struct {
	Symbol      string    `yaml:"symbol" validate:"required"`
	Name        string    `yaml:"name"`
	Address     string    `yaml:"address" validate:"required,eth_addr"`
	Decimals    uint8     `yaml:"decimals" default:"18"`
	CoingeckoID string    `yaml:"coingecko_id"`
	IsNative    bool      `yaml:"is_native"`
	Liquidity   Liquidity `yaml:"liquidity" default:"medium" validate:"oneof=high medium low"`
	Recommended bool      `yaml:"recommended"`
}

// Network describes a supported chain.
type Network struct {
	Key                   string           `yaml:"-"`
	Name                  string           `yaml:"name" validate:"required"`
	ChainID               int64            `yaml:"chain_id" validate:"required,gt=0"`
	NativeSymbol          string           `yaml:"native_symbol" default:"ETH"`
	RPCURLs               []string         `yaml:"rpc_urls" validate:"required,min=1,dive,url"`
	Testnet               bool             `yaml:"testnet"`
	RequiredConfirmations uint64           `yaml:"required_confirmations" default:"1" validate:"gte=1"`
	RecommendedStablecoin string           `yaml:"recommended_stablecoin"`
	Tokens                map[string]Token `yaml:"tokens" validate:"dive"`
}

// Registry is a read-only set of networks keyed by lower-case network key.
type Registry struct {
	networks map[string]*Network
}

// NewRegistry builds a registry from the given networks. Keys are lower-cased.
func NewRegistry(networks map[string]*Network) *Registry {
	r := &Registry{networks: make(map[string]*Network, len(networks))}
	for key, n := range networks {
		k := strings.ToLower(key)
		n.Key = k
		r.networks[k] = n
	}
	return r
}

// Get returns the network registered under key.
func (r *Registry) Get(key string) (*Network, error) {
	n, ok := r.networks[strings.ToLower(key)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, key)
	}
	return n, nil
}

// Keys returns all registered network keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.networks))
	for k := range r.networks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a registry with the networks of other overriding r per key.
func (r *Registry) Merge(other *Registry) *Registry {
	merged := make(map[string]*Network, len(r.networks)+len(other.networks))
	for k, n := range r.networks {
		merged[k] = n
	}
	for k, n := range other.networks {
		merged[k] = n
	}
	return NewRegistry(merged)
}

// TokenByKey looks a token up by its registry key (e.g. "usdc").
func (n *Network) TokenByKey(key string) (Token, bool) {
	t, ok := n.Tokens[strings.ToLower(key)]
	return t, ok
}

// TokenBySymbol looks a token up by its on-chain symbol, case-insensitively.
func (n *Network) TokenBySymbol(symbol string) (Token, bool) {
	for _, key := range n.tokenKeys() {
		t := n.Tokens[key]
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return Token{}, false
}

// LookupToken resolves an asset designator by key first, then by symbol.
func (n *Network) LookupToken(asset string) (Token, bool) {
	if t, ok := n.TokenByKey(asset); ok {
		return t, true
	}
	return n.TokenBySymbol(asset)
}

// RecommendedToken returns the network's preferred stablecoin.
func (n *Network) RecommendedToken() (Token, bool) {
	if n.RecommendedStablecoin == "" {
		return Token{}, false
	}
	return n.TokenByKey(n.RecommendedStablecoin)
}

// AllTokens returns every configured token ordered by key.
func (n *Network) AllTokens() []Token {
	keys := n.tokenKeys()
	tokens := make([]Token, 0, len(keys))
	for _, k := range keys {
		tokens = append(tokens, n.Tokens[k])
	}
	return tokens
}

// RecommendedTokens returns the tokens flagged as recommended for payments.
func (n *Network) RecommendedTokens() []Token {
	var tokens []Token
	for _, t := range n.AllTokens() {
		if t.Recommended {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// IsTokenSupported reports whether the asset resolves to a configured token.
func (n *Network) IsTokenSupported(asset string) bool {
	_, ok := n.LookupToken(asset)
	return ok
}

func (n *Network) tokenKeys() []string {
	keys := make([]string, 0, len(n.Tokens))
	for k := range n.Tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NetworkToken pairs a network key with one of its tokens.
type NetworkToken struct {
	Network string `json:"network"`
	Token   Token  `json:"token"`
}

// BestNetworksForToken lists networks where the token is recommended and has high liquidity.
func (r *Registry) BestNetworksForToken(key string) []NetworkToken {
	var out []NetworkToken
	for _, nk := range r.Keys() {
		t, ok := r.networks[nk].TokenByKey(key)
		if ok && t.Recommended && t.Liquidity == LiquidityHigh {
			out = append(out, NetworkToken{Network: nk, Token: t})
		}
	}
	return out
}

// TokenValidation is the payment-suitability assessment of a token on a network.
type TokenValidation struct {
	Valid          bool     `json:"is_valid"`
	Warnings       []string `json:"warnings"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// ValidatePaymentToken assesses whether asset is a sensible payment token on the network.
func (r *Registry) ValidatePaymentToken(networkKey, asset string) (*TokenValidation, error) {
	n, err := r.Get(networkKey)
	if err != nil {
		return nil, err
	}

	t, ok := n.LookupToken(asset)
	if !ok {
		return &TokenValidation{
			Valid:    false,
			Warnings: []string{fmt.Sprintf("%s is not supported on %s", asset, n.Name)},
		}, nil
	}

	warnings := []string{}
	if !t.Recommended {
		warnings = append(warnings, fmt.Sprintf("%s is not recommended for payments on %s", asset, n.Name))
	}
	if t.Liquidity == LiquidityLow {
		warnings = append(warnings, fmt.Sprintf("%s has low liquidity on %s", asset, n.Name))
	}
	if !t.IsNative {
		warnings = append(warnings, fmt.Sprintf("%s is bridged on %s, not native", asset, n.Name))
	}

	res := &TokenValidation{Valid: true, Warnings: warnings}
	if len(warnings) > 0 {
		if rec, ok := n.RecommendedToken(); ok {
			res.Recommendation = fmt.Sprintf("Consider using %s instead", rec.Symbol)
		}
	}
	return res, nil
}
