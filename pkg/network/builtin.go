package network

// Builtin returns the default network registry. RPC URLs are public endpoints
// and are expected to be overridden through the networks file in production.
func Builtin() *Registry {
	usdcEthereum := Token{
		Symbol:      "USDC",
		Name:        "USD Coin",
		Address:     "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238",
		Decimals:    6,
		CoingeckoID: "usd-coin",
		IsNative:    true,
		Liquidity:   LiquidityHigh,
		Recommended: true,
	}

	return NewRegistry(map[string]*Network{
		"ethereum": {
			Name:                  "Ethereum",
			ChainID:               1,
			NativeSymbol:          "ETH",
			RPCURLs:               []string{"https://ethereum-rpc.publicnode.com"},
			RequiredConfirmations: 12,
			RecommendedStablecoin: "usdc",
			Tokens: map[string]Token{
				"usdt": {
					Symbol:      "USDT",
					Name:        "Tether USD",
					Address:     "0xdAC17F958D2ee523a2206206994597C13D831ec7",
					Decimals:    6,
					CoingeckoID: "tether",
					IsNative:    true,
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
				"usdc": usdcEthereum,
			},
		},
		"sepolia": {
			Name:                  "Sepolia",
			ChainID:               11155111,
			NativeSymbol:          "ETH",
			RPCURLs:               []string{"https://eth-sepolia.public.blastapi.io"},
			Testnet:               true,
			RequiredConfirmations: 3,
			RecommendedStablecoin: "usdc",
			Tokens: map[string]Token{
				"usdt": {
					Symbol:      "USDT",
					Name:        "Tether USD",
					Address:     "0x863aE464D7E8e6F95b845FD3AF0f9A2B2034D6dD",
					Decimals:    6,
					CoingeckoID: "tether",
					IsNative:    true,
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
				"usdc": usdcEthereum,
			},
		},
		"polygon": {
			Name:                  "Polygon",
			ChainID:               137,
			NativeSymbol:          "MATIC",
			RPCURLs:               []string{"https://polygon-rpc.com"},
			RequiredConfirmations: 64,
			RecommendedStablecoin: "usdt",
			Tokens: map[string]Token{
				"usdt": {
					Symbol:      "USDT",
					Name:        "Tether USD (PoS)",
					Address:     "0xc2132D05D31c914a87C6611C10748AEb04B58e8F",
					Decimals:    6,
					CoingeckoID: "tether",
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
				"usdc": {
					Symbol:      "USDC.e",
					Name:        "USD Coin (PoS)",
					Address:     "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
					Decimals:    6,
					CoingeckoID: "usd-coin",
					Liquidity:   LiquidityMedium,
				},
			},
		},
		"arbitrum": {
			Name:                  "Arbitrum One",
			ChainID:               42161,
			NativeSymbol:          "ETH",
			RPCURLs:               []string{"https://arb1.arbitrum.io/rpc"},
			RequiredConfirmations: 1,
			RecommendedStablecoin: "usdc",
			Tokens: map[string]Token{
				"usdt": {
					Symbol:      "USDT",
					Name:        "Tether USD",
					Address:     "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9",
					Decimals:    6,
					CoingeckoID: "tether",
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
				"usdc": {
					Symbol:      "USDC",
					Name:        "USD Coin",
					Address:     "0xaf88d065e77c8cC2239327C5EDb3A432268e5831",
					Decimals:    6,
					CoingeckoID: "usd-coin",
					IsNative:    true,
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
			},
		},
		"optimism": {
			Name:                  "Optimism",
			ChainID:               10,
			NativeSymbol:          "ETH",
			RPCURLs:               []string{"https://mainnet.optimism.io"},
			RequiredConfirmations: 1,
			RecommendedStablecoin: "usdc",
			Tokens: map[string]Token{
				"usdt": {
					Symbol:      "USDT",
					Name:        "Tether USD",
					Address:     "0x94b008aA00579c1307B0EF2c499aD98a8ce58e58",
					Decimals:    6,
					CoingeckoID: "tether",
					Liquidity:   LiquidityMedium,
				},
				"usdc": {
					Symbol:      "USDC",
					Name:        "USD Coin",
					Address:     "0x0b2C639c533813f4Aa9D7837CAf62653d097Ff85",
					Decimals:    6,
					CoingeckoID: "usd-coin",
					IsNative:    true,
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
			},
		},
		"base": {
			Name:                  "Base",
			ChainID:               8453,
			NativeSymbol:          "ETH",
			RPCURLs:               []string{"https://mainnet.base.org"},
			RequiredConfirmations: 1,
			RecommendedStablecoin: "usdc",
			Tokens: map[string]Token{
				"usdc": {
					Symbol:      "USDC",
					Name:        "USD Coin",
					Address:     "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
					Decimals:    6,
					CoingeckoID: "usd-coin",
					IsNative:    true,
					Liquidity:   LiquidityHigh,
					Recommended: true,
				},
			},
		},
	})
}
