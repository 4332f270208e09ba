package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderPayload = `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
	`"originalQty":100,"qty":20,"price":5000,"orderType":"limit","id":12,` +
	`"account":"EXB123456","ts":"2015-12-04T09:02:16.680986205Z",` +
	`"fills":[{"price":5000,"qty":30,"ts":"2015-12-04T09:02:16.680986205Z"},` +
	`{"price":4990,"qty":50,"ts":"2015-12-04T09:02:17.680986205Z"}],` +
	`"totalFilled":80,"open":true}`

func TestNewOrderRemapsOrderType(t *testing.T) {
	o, err := NewOrder([]byte(orderPayload), false)
	require.Nil(t, err)
	assert.Equal(t, "limit", o.Type)
	assert.Equal(t, int64(12), o.ID)
	assert.Equal(t, int64(100), o.OriginalQty)
	assert.Equal(t, int64(80), o.TotalFilled)
	assert.Len(t, o.Fills, 2)
	// the raw payload is kept exactly as received
	assert.Equal(t, orderPayload, string(o.Raw))
}

func TestNewOrderRemapEscapedValue(t *testing.T) {
	// the adapter must survive values that need JSON escaping
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":100,"qty":100,"price":5000,"orderType":"li\"mit\\","id":12,` +
		`"account":"EXB123456","ts":"t","totalFilled":0,"open":true}`
	o, err := NewOrder([]byte(payload), false)
	require.Nil(t, err)
	assert.Equal(t, `li"mit\`, o.Type)
}

func TestNewOrderMissingRequiredField(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":100,"qty":20,"price":5000,"orderType":"limit",` +
		`"account":"EXB123456","ts":"t","totalFilled":0,"open":true}`
	_, err := NewOrder([]byte(payload), false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "Order")
	assert.Contains(t, err.Error(), `"id"`)
}

func TestNewOrderTypeMismatch(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":100,"qty":"20","price":5000,"orderType":"limit","id":12,` +
		`"account":"EXB123456","ts":"t","totalFilled":0,"open":true}`
	_, err := NewOrder([]byte(payload), false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), `"qty"`)
	assert.Contains(t, err.Error(), "must be integer")
}

func TestNewOrderStrictRejectsUnknownField(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":100,"qty":100,"price":5000,"orderType":"limit","id":12,` +
		`"account":"EXB123456","ts":"t","totalFilled":0,"open":true,"surprise":1}`
	_, err := NewOrder([]byte(payload), false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), `"surprise"`)

	// lenient mode ignores it
	o, err := NewOrder([]byte(payload), true)
	require.Nil(t, err)
	assert.Equal(t, int64(12), o.ID)
}

func TestNewOrderFillSumInvariant(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":100,"qty":20,"price":5000,"orderType":"limit","id":12,` +
		`"account":"EXB123456","ts":"t",` +
		`"fills":[{"price":5000,"qty":30,"ts":"t"}],"totalFilled":80,"open":true}`
	_, err := NewOrder([]byte(payload), false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "totalFilled")
}

func TestNewOrdersFillSumInvariant(t *testing.T) {
	// an invariant-violating order is rejected from a listing too
	bad := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":100,"qty":20,"price":5000,"orderType":"limit","id":12,` +
		`"account":"EXB123456","ts":"t",` +
		`"fills":[{"price":5000,"qty":30,"ts":"t"}],"totalFilled":80,"open":true}`
	payload := `{"ok":true,"venue":"TESTEX","orders":[` + bad + `]}`
	_, err := NewOrders([]byte(payload))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "totalFilled")
}

func TestNewOrderRemainingQtyInvariant(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","direction":"buy",` +
		`"originalQty":10,"qty":20,"price":5000,"orderType":"limit","id":12,` +
		`"account":"EXB123456","ts":"t","totalFilled":0,"open":true}`
	_, err := NewOrder([]byte(payload), false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "originalQty")
}

func TestNewOrderbookLenient(t *testing.T) {
	payload := `{"ok":true,"venue":"TESTEX","symbol":"FOOBAR",` +
		`"bids":[{"price":5000,"qty":10,"isBuy":true}],` +
		`"asks":[{"price":5100,"qty":5,"isBuy":false}],` +
		`"ts":"2015-12-04T09:02:16.680986205Z","someExtra":{"deep":true}}`
	ob, err := NewOrderbook([]byte(payload), true)
	require.Nil(t, err)
	assert.Equal(t, "TESTEX", ob.Venue)
	assert.Equal(t, int64(5000), ob.Bids[0].Price)
	assert.True(t, ob.Bids[0].IsBuy)
	assert.Equal(t, int64(5), ob.Asks[0].Qty)
	// round-trip: the raw payload survives unchanged, extras included
	assert.Equal(t, payload, string(ob.Raw))
}

func TestNewOrderbookEmptySides(t *testing.T) {
	payload := `{"ok":true,"venue":"TESTEX","symbol":"FOOBAR","ts":"t"}`
	ob, err := NewOrderbook([]byte(payload), true)
	require.Nil(t, err)
	assert.NotNil(t, ob.Bids)
	assert.NotNil(t, ob.Asks)
	assert.Len(t, ob.Bids, 0)
	assert.Len(t, ob.Asks, 0)
}

func TestNewOrderbookStrictRejectsUnknownField(t *testing.T) {
	payload := `{"ok":true,"venue":"TESTEX","symbol":"FOOBAR","ts":"t","extra":1}`
	_, err := NewOrderbook([]byte(payload), false)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), `"extra"`)
}

func TestNewStocks(t *testing.T) {
	payload := `{"ok":true,"symbols":[{"name":"Foreign Owned Occluded Bridge Architecture Resources","symbol":"FOOBAR"}]}`
	s, err := NewStocks([]byte(payload))
	require.Nil(t, err)
	require.Len(t, s.Symbols, 1)
	assert.Equal(t, "FOOBAR", s.Symbols[0].Symbol)
	assert.Equal(t, payload, string(s.Raw))
}

func TestNewStocksBadSymbol(t *testing.T) {
	payload := `{"ok":true,"symbols":[{"symbol":"FOOBAR"}]}`
	_, err := NewStocks([]byte(payload))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "Symbol")
	assert.Contains(t, err.Error(), `"name"`)
}

func TestNewOrders(t *testing.T) {
	payload := `{"ok":true,"venue":"TESTEX","orders":[` + orderPayload + `]}`
	list, err := NewOrders([]byte(payload))
	require.Nil(t, err)
	require.Len(t, list.Orders, 1)
	// nested orders get the orderType remap too
	assert.Equal(t, "limit", list.Orders[0].Type)
	assert.Equal(t, payload, string(list.Raw))
}

func TestNewQuote(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","bid":5000,"ask":5100,` +
		`"bidSize":100,"askSize":50,"bidDepth":300,"askDepth":150,"last":5050,` +
		`"lastSize":10,"lastTrade":"2015-12-04T09:02:16.680986205Z",` +
		`"quoteTime":"2015-12-04T09:02:17.680986205Z"}`
	q, err := NewQuote([]byte(payload))
	require.Nil(t, err)
	assert.Equal(t, int64(5000), q.Bid)
	assert.Equal(t, int64(10), q.LastSize)
	assert.Equal(t, payload, string(q.Raw))
}

func TestNewQuoteMissingField(t *testing.T) {
	payload := `{"ok":true,"symbol":"FOOBAR","venue":"TESTEX","bid":5000}`
	_, err := NewQuote([]byte(payload))
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "Quote")
}
