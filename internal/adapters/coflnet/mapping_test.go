package coflnet

import (
	"testing"

	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLowestStartingBid(t *testing.T) {
	_, ok := lowestStartingBid(nil)
	assert.False(t, ok)

	p, ok := lowestStartingBid([]activeAuction{{StartingBid: 30}, {StartingBid: 10}, {StartingBid: 20}})
	assert.True(t, ok)
	assert.Equal(t, domain.PriceOf(10), p)
}

func TestBinSaleStats_IgnoresAuctions(t *testing.T) {
	lowest, avg, ok := binSaleStats([]soldAuction{
		{HighestBidAmount: 100, Bin: true},
		{HighestBidAmount: 1, Bin: false},
		{HighestBidAmount: 300, Bin: true},
	})
	assert.True(t, ok)
	assert.Equal(t, domain.PriceOf(100), lowest)
	assert.Equal(t, domain.PriceOf(200), avg)
}

func TestBinSaleStats_NoBinSales(t *testing.T) {
	_, _, ok := binSaleStats([]soldAuction{{HighestBidAmount: 5, Bin: false}})
	assert.False(t, ok)
}
