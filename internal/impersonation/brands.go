package impersonation

// Brand is one well-known, legitimate destination the detector scores
// candidate domains against. The set is read-only at request time.
type Brand struct {
	Domain string `yaml:"domain" json:"domain"`
	Name   string `yaml:"name" json:"name"`
}

// DefaultBrands covers the major exchanges, wallets and platforms that
// phishing campaigns impersonate most often. Deployments extend the list
// through the tuning file.
func DefaultBrands() []Brand {
	return []Brand{
		{Domain: "binance.com", Name: "Binance"},
		{Domain: "upbit.com", Name: "Upbit"},
		{Domain: "bithumb.com", Name: "Bithumb"},
		{Domain: "coinone.co.kr", Name: "Coinone"},
		{Domain: "korbit.co.kr", Name: "Korbit"},
		{Domain: "coinbase.com", Name: "Coinbase"},
		{Domain: "kraken.com", Name: "Kraken"},
		{Domain: "okx.com", Name: "OKX"},
		{Domain: "bybit.com", Name: "Bybit"},
		{Domain: "kucoin.com", Name: "KuCoin"},
		{Domain: "gate.io", Name: "Gate.io"},
		{Domain: "htx.com", Name: "HTX"},
		{Domain: "bitget.com", Name: "Bitget"},
		{Domain: "metamask.io", Name: "MetaMask"},
		{Domain: "trustwallet.com", Name: "Trust Wallet"},
		{Domain: "ledger.com", Name: "Ledger"},
		{Domain: "trezor.io", Name: "Trezor"},
		{Domain: "opensea.io", Name: "OpenSea"},
		{Domain: "uniswap.org", Name: "Uniswap"},
		{Domain: "paypal.com", Name: "PayPal"},
		{Domain: "google.com", Name: "Google"},
		{Domain: "apple.com", Name: "Apple"},
		{Domain: "microsoft.com", Name: "Microsoft"},
		{Domain: "facebook.com", Name: "Facebook"},
	}
}
