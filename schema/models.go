package schema

import (
	"encoding/json"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"
)

// Shape definitions for each API resource. The top-level resources also
// declare the transport's ok flag so strict validation accepts it.
var (
	symbolDef = &Definition{Model: "Symbol", Fields: []Field{
		{Name: "name", Type: String, Required: true},
		{Name: "symbol", Type: String, Required: true},
	}}

	stocksDef = &Definition{Model: "Stocks", Fields: []Field{
		{Name: "ok", Type: Bool},
		{Name: "symbols", Type: List, Elem: symbolDef},
	}}

	bidOrAskDef = &Definition{Model: "BidOrAsk", Fields: []Field{
		{Name: "price", Type: Int, Required: true},
		{Name: "qty", Type: Int, Required: true},
		{Name: "isBuy", Type: Bool, Required: true},
	}}

	orderbookDef = &Definition{Model: "Orderbook", Fields: []Field{
		{Name: "ok", Type: Bool},
		{Name: "venue", Type: String, Required: true},
		{Name: "symbol", Type: String, Required: true},
		{Name: "bids", Type: List, Elem: bidOrAskDef},
		{Name: "asks", Type: List, Elem: bidOrAskDef},
		{Name: "ts", Type: String, Required: true},
	}}

	fillDef = &Definition{Model: "Fill", Fields: []Field{
		{Name: "price", Type: Int, Required: true},
		{Name: "qty", Type: Int, Required: true},
		{Name: "ts", Type: String, Required: true},
	}}

	// orderType is the wire name for the order type; it is copied into
	// type by normalizeOrder before validation and declared here so the
	// strict path accepts both spellings.
	orderDef = &Definition{Model: "Order", Normalize: normalizeOrder, Fields: []Field{
		{Name: "ok", Type: Bool},
		{Name: "symbol", Type: String, Required: true},
		{Name: "venue", Type: String, Required: true},
		{Name: "direction", Type: String, Required: true},
		{Name: "originalQty", Type: Int, Required: true},
		{Name: "qty", Type: Int, Required: true},
		{Name: "price", Type: Int, Required: true},
		{Name: "type", Type: String, Required: true},
		{Name: "orderType", Type: String},
		{Name: "id", Type: Int, Required: true},
		{Name: "account", Type: String, Required: true},
		{Name: "ts", Type: String, Required: true},
		{Name: "fills", Type: List, Elem: fillDef},
		{Name: "totalFilled", Type: Int, Required: true},
		{Name: "open", Type: Bool, Required: true},
	}}

	ordersDef = &Definition{Model: "Orders", Fields: []Field{
		{Name: "ok", Type: Bool},
		{Name: "venue", Type: String, Required: true},
		{Name: "orders", Type: List, Elem: orderDef},
	}}

	quoteDef = &Definition{Model: "Quote", Fields: []Field{
		{Name: "ok", Type: Bool},
		{Name: "symbol", Type: String, Required: true},
		{Name: "venue", Type: String, Required: true},
		{Name: "bid", Type: Int, Required: true},
		{Name: "ask", Type: Int, Required: true},
		{Name: "bidSize", Type: Int, Required: true},
		{Name: "askSize", Type: Int, Required: true},
		{Name: "bidDepth", Type: Int, Required: true},
		{Name: "askDepth", Type: Int, Required: true},
		{Name: "last", Type: Int, Required: true},
		{Name: "lastSize", Type: Int, Required: true},
		{Name: "lastTrade", Type: String, Required: true},
		{Name: "quoteTime", Type: String, Required: true},
	}}
)

// Symbol is one tradable instrument.
type Symbol struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Stocks lists an exchange's instruments.
type Stocks struct {
	Symbols []Symbol `json:"symbols"`
	Raw     []byte   `json:"-"`
}

func NewStocks(raw []byte) (*Stocks, error) {
	if err := stocksDef.Validate(raw, false); err != nil {
		return nil, err
	}
	s := &Stocks{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, errors.Wrap(err, "failed to decode Stocks")
	}
	s.Raw = keep(raw)
	return s, nil
}

// BidOrAsk is one resting order-book entry. Prices are integer cents.
type BidOrAsk struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
	IsBuy bool  `json:"isBuy"`
}

// Orderbook is a snapshot of one instrument's book. A missing bids or
// asks field means an empty side, not an invalid payload.
type Orderbook struct {
	Venue  string     `json:"venue"`
	Symbol string     `json:"symbol"`
	Bids   []BidOrAsk `json:"bids"`
	Asks   []BidOrAsk `json:"asks"`
	TS     string     `json:"ts"`
	Raw    []byte     `json:"-"`
}

func NewOrderbook(raw []byte, lenient bool) (*Orderbook, error) {
	if err := orderbookDef.Validate(raw, lenient); err != nil {
		return nil, err
	}
	ob := &Orderbook{}
	if err := json.Unmarshal(raw, ob); err != nil {
		return nil, errors.Wrap(err, "failed to decode Orderbook")
	}
	if ob.Bids == nil {
		ob.Bids = []BidOrAsk{}
	}
	if ob.Asks == nil {
		ob.Asks = []BidOrAsk{}
	}
	ob.Raw = keep(raw)
	return ob, nil
}

// Fill is one partial or full execution against an order.
type Fill struct {
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
	TS    string `json:"ts"`
}

// Order is the state of one exchange order. Qty is the remaining
// quantity; TotalFilled always equals the sum of the fill quantities.
type Order struct {
	Symbol      string `json:"symbol"`
	Venue       string `json:"venue"`
	Direction   string `json:"direction"`
	OriginalQty int64  `json:"originalQty"`
	Qty         int64  `json:"qty"`
	Price       int64  `json:"price"`
	Type        string `json:"type"`
	ID          int64  `json:"id"`
	Account     string `json:"account"`
	TS          string `json:"ts"`
	Fills       []Fill `json:"fills"`
	TotalFilled int64  `json:"totalFilled"`
	Open        bool   `json:"open"`
	Raw         []byte `json:"-"`
}

// UnmarshalJSON decodes an order after running the wire-format adapter,
// so orders nested inside other payloads get the orderType rename too.
func (o *Order) UnmarshalJSON(raw []byte) error {
	type alias Order
	var a alias
	if err := json.Unmarshal(normalizeOrder(raw), &a); err != nil {
		return err
	}
	*o = Order(a)
	o.Raw = keep(raw)
	return nil
}

func NewOrder(raw []byte, lenient bool) (*Order, error) {
	if err := orderDef.Validate(raw, lenient); err != nil {
		return nil, err
	}
	o := &Order{}
	if err := json.Unmarshal(raw, o); err != nil {
		return nil, errors.Wrap(err, "failed to decode Order")
	}
	if err := o.checkFills(); err != nil {
		return nil, err
	}
	return o, nil
}

// normalizeOrder copies the wire field orderType into type. The wire
// format and the typed model disagree on the field name; this is the
// explicit adapter step, run before validation and decoding.
func normalizeOrder(raw []byte) []byte {
	value, vt, _, err := jsonparser.Get(raw, "orderType")
	if err != nil {
		return raw
	}
	if vt == jsonparser.String {
		// Get unescapes string values; re-encode rather than re-quote
		quoted, err := json.Marshal(string(value))
		if err != nil {
			return raw
		}
		value = quoted
	}
	out, err := jsonparser.Set(keep(raw), value, "type")
	if err != nil {
		return raw
	}
	return out
}

func (o *Order) checkFills() error {
	var sum int64
	for _, f := range o.Fills {
		sum += f.Qty
	}
	if o.TotalFilled != sum {
		return errors.Errorf("Order: totalFilled %v does not match fill quantity sum %v", o.TotalFilled, sum)
	}
	if o.Qty > o.OriginalQty {
		return errors.Errorf("Order: remaining qty %v exceeds originalQty %v", o.Qty, o.OriginalQty)
	}
	return nil
}

// Orders lists the orders for an account on one venue.
type Orders struct {
	Venue  string  `json:"venue"`
	Orders []Order `json:"orders"`
	Raw    []byte  `json:"-"`
}

func NewOrders(raw []byte) (*Orders, error) {
	if err := ordersDef.Validate(raw, false); err != nil {
		return nil, err
	}
	list := &Orders{}
	if err := json.Unmarshal(raw, list); err != nil {
		return nil, errors.Wrap(err, "failed to decode Orders")
	}
	for i := range list.Orders {
		if err := list.Orders[i].checkFills(); err != nil {
			return nil, err
		}
	}
	list.Raw = keep(raw)
	return list, nil
}

// Quote is a best-of-book summary for one instrument.
type Quote struct {
	Symbol    string `json:"symbol"`
	Venue     string `json:"venue"`
	Bid       int64  `json:"bid"`
	Ask       int64  `json:"ask"`
	BidSize   int64  `json:"bidSize"`
	AskSize   int64  `json:"askSize"`
	BidDepth  int64  `json:"bidDepth"`
	AskDepth  int64  `json:"askDepth"`
	Last      int64  `json:"last"`
	LastSize  int64  `json:"lastSize"`
	LastTrade string `json:"lastTrade"`
	QuoteTime string `json:"quoteTime"`
	Raw       []byte `json:"-"`
}

func NewQuote(raw []byte) (*Quote, error) {
	if err := quoteDef.Validate(raw, false); err != nil {
		return nil, err
	}
	q := &Quote{}
	if err := json.Unmarshal(raw, q); err != nil {
		return nil, errors.Wrap(err, "failed to decode Quote")
	}
	q.Raw = keep(raw)
	return q, nil
}

// keep copies the payload so entities never alias transport buffers.
func keep(raw []byte) []byte {
	return append([]byte(nil), raw...)
}
