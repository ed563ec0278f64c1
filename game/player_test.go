package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testPrices = map[string]float64{"AAPL": 100, "TSLA": 200}

func TestBuyRejectedOnInsufficientFunds(t *testing.T) {
	p := newPlayerState("alice", 10000, 3)

	// 200 shares at 100 costs 20000, twice the stake.
	_, err := p.applyTrade(TradeRequest{Ticker: "AAPL", Quantity: 200, Type: TradeBuy}, testPrices, 1)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	require.Equal(t, 10000.0, p.Funds)
	require.NotContains(t, p.Holdings, "AAPL")
	require.Empty(t, p.Ledger)
}

func TestSellRejectedWithoutShares(t *testing.T) {
	p := newPlayerState("bob", 10000, 3)

	_, err := p.applyTrade(TradeRequest{Ticker: "TSLA", Quantity: 5, Type: TradeSell}, testPrices, 1)
	require.ErrorIs(t, err, ErrInsufficientShares)

	require.Equal(t, 10000.0, p.Funds)
	require.NotContains(t, p.Holdings, "TSLA")
}

func TestBuyThenSellRoundTrip(t *testing.T) {
	p := newPlayerState("carol", 10000, 3)

	entry, err := p.applyTrade(TradeRequest{Ticker: "AAPL", Quantity: 30, Type: TradeBuy}, testPrices, 1)
	require.NoError(t, err)
	require.Equal(t, 100.0, entry.Price)
	require.Equal(t, 7000.0, p.Funds)
	require.Equal(t, 30, p.Holdings["AAPL"])

	_, err = p.applyTrade(TradeRequest{Ticker: "AAPL", Quantity: 30, Type: TradeSell}, testPrices, 2)
	require.NoError(t, err)
	require.Equal(t, 10000.0, p.Funds)
	// Selling to zero removes the position entirely.
	require.NotContains(t, p.Holdings, "AAPL")

	require.Len(t, p.Ledger, 2)
	require.Equal(t, TradeBuy, p.Ledger[0].Type)
	require.Equal(t, TradeSell, p.Ledger[1].Type)
	require.Equal(t, 1, p.Ledger[0].Round)
	require.Equal(t, 2, p.Ledger[1].Round)
}

func TestMalformedTradesRejected(t *testing.T) {
	p := newPlayerState("dave", 10000, 3)

	cases := []TradeRequest{
		{Ticker: "AAPL", Quantity: 0, Type: TradeBuy},
		{Ticker: "AAPL", Quantity: -3, Type: TradeSell},
		{Ticker: "UNKNOWN", Quantity: 1, Type: TradeBuy},
		{Ticker: "AAPL", Quantity: 1, Type: "short"},
	}
	for _, req := range cases {
		_, err := p.applyTrade(req, testPrices, 1)
		var invalid *InvalidTransactionError
		require.ErrorAs(t, err, &invalid, "request %+v", req)
	}

	require.Equal(t, 10000.0, p.Funds)
	require.Empty(t, p.Holdings)
	require.Empty(t, p.Ledger)
}

func TestStateInvariantsUnderTradeSequence(t *testing.T) {
	p := newPlayerState("erin", 10000, 5)

	seq := []TradeRequest{
		{Ticker: "AAPL", Quantity: 50, Type: TradeBuy},   // 5000
		{Ticker: "TSLA", Quantity: 30, Type: TradeBuy},   // rejected: 6000 > 5000 left
		{Ticker: "TSLA", Quantity: 20, Type: TradeBuy},   // 4000
		{Ticker: "AAPL", Quantity: 60, Type: TradeSell},  // rejected: only 50 held
		{Ticker: "AAPL", Quantity: 50, Type: TradeSell},  // +5000
		{Ticker: "TSLA", Quantity: 25, Type: TradeSell},  // rejected
	}
	for _, req := range seq {
		p.applyTrade(req, testPrices, 1)
		require.GreaterOrEqual(t, p.Funds, 0.0)
		for symbol, shares := range p.Holdings {
			require.GreaterOrEqual(t, shares, 0, "holding %s", symbol)
		}
	}

	require.Equal(t, 6000.0, p.Funds)
	require.Equal(t, map[string]int{"TSLA": 20}, p.Holdings)
}

func TestHoldingsSnapshots(t *testing.T) {
	p := newPlayerState("frank", 10000, 3)

	p.applyTrade(TradeRequest{Ticker: "AAPL", Quantity: 10, Type: TradeBuy}, testPrices, 1)
	p.snapshotHoldings(1)

	p.applyTrade(TradeRequest{Ticker: "AAPL", Quantity: 5, Type: TradeBuy}, testPrices, 2)
	p.snapshotHoldings(2)

	round1, ok := p.holdingsAtRound(1)
	require.True(t, ok)
	require.Equal(t, map[string]int{"AAPL": 10}, round1)

	round2, ok := p.holdingsAtRound(2)
	require.True(t, ok)
	require.Equal(t, map[string]int{"AAPL": 15}, round2)

	// Round 3 has not closed.
	_, ok = p.holdingsAtRound(3)
	require.False(t, ok)

	// Snapshots are copies, not views of live holdings.
	round1["AAPL"] = 999
	again, _ := p.holdingsAtRound(1)
	require.Equal(t, 10, again["AAPL"])

	// Re-snapshotting a round overwrites it.
	p.applyTrade(TradeRequest{Ticker: "TSLA", Quantity: 1, Type: TradeBuy}, testPrices, 2)
	p.snapshotHoldings(2)
	round2, _ = p.holdingsAtRound(2)
	require.Equal(t, map[string]int{"AAPL": 15, "TSLA": 1}, round2)
}

func TestNetWorth(t *testing.T) {
	p := newPlayerState("gina", 1000, 3)
	p.Holdings["AAPL"] = 10
	p.Holdings["MSFT"] = 7 // not priced: contributes nothing

	require.Equal(t, 2000.0, p.netWorth(testPrices))
}
